package v2

import (
	"context"

	"github.com/rampart-load/rampart/internal/performance/v2/data"
)

// loadRowData is called once per iteration, before any request executes. It
// pulls a row from the bound global and scenario-scoped providers (if any)
// and merges their columns into the VU's variable scope the same way
// resolveVariables already reads it, so request URL/body/header templates
// pick up row values with no further change to this file.
//
// It returns stop=true when the manager has latched a stop-VU condition;
// the caller treats that exactly like a graceful stop signal. A non-nil
// error is either a *data.StopTestError or the error a provider returned
// while loading its source; RunIteration returns it unchanged.
func (vu *VirtualUser) loadRowData(ctx context.Context, iteration int64) (stop bool, err error) {
	if vu.Data == nil {
		return false, nil
	}

	vu.Data.OnIterationStart(iteration)

	vctx := data.NewContext()

	ok, err := vu.Data.LoadGlobalInto(ctx, vctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}

	if vu.ScenarioName != "" {
		ok, err = vu.Data.LoadScenarioInto(ctx, vu.ScenarioName, vctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
	}

	for k, val := range vctx.Variables {
		vu.SetData(k, val)
	}
	return false, nil
}
