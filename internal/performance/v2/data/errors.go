package data

import "fmt"

// Sentinel errors returned by Provider and Registry. Check with errors.Is.
var (
	// ErrSourceMissing means the tabular source could not be opened.
	ErrSourceMissing = fmt.Errorf("data: source missing")

	// ErrNoData means the source opened but produced zero usable rows.
	ErrNoData = fmt.Errorf("data: no data")
)

// ExhaustionReason identifies why getRow could not hand back a fresh row.
type ExhaustionReason string

const (
	// ReasonStopTest means the whole run should abort.
	ReasonStopTest ExhaustionReason = "stop_test"
	// ReasonStopVU means this VU should stop taking iterations.
	ReasonStopVU ExhaustionReason = "stop_vu"
	// ReasonNoValue means the iteration continues without this row.
	ReasonNoValue ExhaustionReason = "no_value"
)

// StopTestError is returned by Manager.LoadGlobalInto when a provider's
// exhaustion policy is on_exhausted=stop_test. The harness is expected to
// detect it with errors.As and abort the run.
type StopTestError struct {
	Provider string
}

func (e *StopTestError) Error() string {
	return fmt.Sprintf("data: provider %q exhausted with on_exhausted=stop_test", e.Provider)
}
