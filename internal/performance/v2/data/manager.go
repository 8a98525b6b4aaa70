package data

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Context is the VU context DataManager owns (§3): two optional row slots
// plus a free-form variables map. It is merged into the existing
// v2.VirtualUser.data map so request templating picks up row values without
// any change to VirtualUser.resolveVariables.
type Context struct {
	GlobalRow   *Row
	ScenarioRow *Row
	Variables   map[string]interface{}
}

// NewContext returns an empty Context ready for LoadGlobalInto/LoadScenarioInto.
func NewContext() *Context {
	return &Context{Variables: make(map[string]interface{})}
}

// ManagerConfig is the per-scenario {config, mode} pair accepted by
// InitScenarios and the optional global source accepted by Init.
type ManagerConfig struct {
	Config *ProviderConfig
	Mode   LegacyMode
}

// Manager is the per-VU façade binding one global Provider and any number
// of scenario-scoped providers to a single VU identity (§4.2). It mediates
// iteration lifecycle and propagates stop signals via two sticky flags.
type Manager struct {
	registry *Registry

	vuID int

	mu        sync.RWMutex
	global    *Provider
	scenarios map[string]*Provider

	iteration int64

	stopVU   bool
	stopTest bool
}

// NewManager returns a Manager bound to vuID and backed by registry.
func NewManager(registry *Registry, vuID int) *Manager {
	return &Manager{
		registry:  registry,
		vuID:      vuID,
		scenarios: make(map[string]*Provider),
	}
}

// Init attaches a provider for the global row source, if cfg is non-nil.
func (m *Manager) Init(cfg *ManagerConfig) error {
	if cfg == nil || cfg.Config == nil {
		return nil
	}
	p, err := m.registry.Acquire(cfg.Config)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.global = p
	m.mu.Unlock()
	return nil
}

// InitScenarios acquires and pre-loads a provider for every scenario that
// declares a tabular source. A load failure for one scenario is logged and
// that scenario's provider becomes absent; it does not fail init for the
// others.
func (m *Manager) InitScenarios(scenarios map[string]*ManagerConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, cfg := range scenarios {
		if cfg == nil || cfg.Config == nil {
			continue
		}
		p, err := m.registry.Acquire(cfg.Config)
		if err != nil {
			log.Printf("data: scenario %q: acquire provider: %v", name, err)
			continue
		}
		if err := p.Load(); err != nil {
			log.Printf("data: scenario %q: load provider: %v", name, err)
			continue
		}
		m.scenarios[name] = p
	}
}

// OnIterationStart remembers the current iteration integer.
func (m *Manager) OnIterationStart(iteration int64) {
	m.mu.Lock()
	m.iteration = iteration
	m.mu.Unlock()
}

// OnIterationEnd releases any checked-out rows on the global provider (if
// any) and on every scenario provider; order is unspecified.
func (m *Manager) OnIterationEnd(iteration int64) {
	m.mu.RLock()
	global := m.global
	scenarios := make([]*Provider, 0, len(m.scenarios))
	for _, p := range m.scenarios {
		scenarios = append(scenarios, p)
	}
	m.mu.RUnlock()

	if global != nil {
		global.ReleaseRow(m.vuID, iteration)
	}
	for _, p := range scenarios {
		p.ReleaseRow(m.vuID, iteration)
	}
}

// LoadGlobalInto resolves a row from the global provider and, on success,
// writes every column as a context variable, overwriting whatever was
// there. It returns false iff the manager has transitioned into stop state
// or the provider reports stop_vu. A stop_test result is signalled via
// *StopTestError, which the harness is expected to propagate with errors.As.
func (m *Manager) LoadGlobalInto(ctx context.Context, vctx *Context) (bool, error) {
	m.mu.RLock()
	stopped := m.stopVU || m.stopTest
	global := m.global
	iteration := m.iteration
	m.mu.RUnlock()

	if stopped {
		return false, nil
	}
	if global == nil {
		return true, nil
	}

	result, err := global.GetRow(ctx, m.vuID, iteration)
	if err != nil {
		return false, err
	}

	switch result.Reason {
	case ReasonStopTest:
		m.mu.Lock()
		m.stopTest, m.stopVU = true, true
		m.mu.Unlock()
		return false, &StopTestError{Provider: "global"}
	case ReasonStopVU:
		m.mu.Lock()
		m.stopVU = true
		m.mu.Unlock()
		return false, nil
	case ReasonNoValue:
		return true, nil
	}

	if result.Row != nil {
		vctx.GlobalRow = result.Row
		result.Row.Each(func(column string, v Value) {
			vctx.Variables[column] = v.Interface()
		})
	}
	return true, nil
}

// LoadScenarioInto is the scenario-scoped counterpart to LoadGlobalInto:
// column keys are written only if absent from Variables (global precedence,
// P4). Unknown scenarios are no-ops returning true.
func (m *Manager) LoadScenarioInto(ctx context.Context, scenario string, vctx *Context) (bool, error) {
	m.mu.RLock()
	stopped := m.stopVU || m.stopTest
	p, ok := m.scenarios[scenario]
	iteration := m.iteration
	m.mu.RUnlock()

	if stopped {
		return false, nil
	}
	if !ok {
		return true, nil
	}

	result, err := p.GetRow(ctx, m.vuID, iteration)
	if err != nil {
		return false, err
	}

	switch result.Reason {
	case ReasonStopTest:
		m.mu.Lock()
		m.stopTest, m.stopVU = true, true
		m.mu.Unlock()
		return false, &StopTestError{Provider: scenario}
	case ReasonStopVU:
		m.mu.Lock()
		m.stopVU = true
		m.mu.Unlock()
		return false, nil
	case ReasonNoValue:
		return true, nil
	}

	if result.Row != nil {
		vctx.ScenarioRow = result.Row
		result.Row.Each(func(column string, v Value) {
			if _, exists := vctx.Variables[column]; !exists {
				vctx.Variables[column] = v.Interface()
			}
		})
	}
	return true, nil
}

// ShouldStop reports the latched stopVU flag (a true stopTest implies it).
func (m *Manager) ShouldStop() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopVU
}

// ShouldStopTest reports the latched stopTest flag.
func (m *Manager) ShouldStopTest() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopTest
}

// AsStopTestError unwraps err into *StopTestError, mirroring how
// engine.Engine.runScenariosSequentially already aborts on the first
// scenario error found via errors.As.
func AsStopTestError(err error) (*StopTestError, bool) {
	var ste *StopTestError
	if errors.As(err, &ste) {
		return ste, true
	}
	return nil, false
}
