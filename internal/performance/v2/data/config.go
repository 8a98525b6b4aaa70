package data

import (
	"fmt"
	"sort"
	"strings"
)

// Scope decides the pool a row is selected from.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
	ScopeUnique Scope = "unique"
)

// Order decides which index is picked within the scope's pool.
type Order string

const (
	OrderSequential Order = "sequential"
	OrderRandom     Order = "random"
)

// Exhaustion decides what happens when a scope's pool has nothing left.
type Exhaustion string

const (
	ExhaustionCycle    Exhaustion = "cycle"
	ExhaustionStopVU   Exhaustion = "stop_vu"
	ExhaustionStopTest Exhaustion = "stop_test"
	ExhaustionNoValue  Exhaustion = "no_value"
)

// ChangePolicy decides how often a VU is allowed to see a different row.
type ChangePolicy string

const (
	ChangeEachUse       ChangePolicy = "each_use"
	ChangeEachIteration ChangePolicy = "each_iteration"
	ChangeEachVU        ChangePolicy = "each_vu"
)

// LegacyMode is the pre-distribution way of selecting rows (§4.1.3).
type LegacyMode string

const (
	LegacyUnique LegacyMode = "unique"
	LegacyRandom LegacyMode = "random"
	LegacyNext   LegacyMode = "next"
)

// Distribution is the explicit scope/order/exhaustion triple.
type Distribution struct {
	Scope      Scope      `json:"scope,omitempty" yaml:"scope,omitempty"`
	Order      Order      `json:"order,omitempty" yaml:"order,omitempty"`
	OnExhausted Exhaustion `json:"on_exhausted,omitempty" yaml:"on_exhausted,omitempty"`
}

// ProviderConfig is the fingerprint key described in spec §3: the source
// path plus the full normalised option set. Two configs with equal
// Fingerprint() share one Provider instance via the Registry.
type ProviderConfig struct {
	File           string            `json:"file" yaml:"file"`
	Encoding       string            `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Delimiter      string            `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	SkipFirstLine  *bool             `json:"skipFirstLine,omitempty" yaml:"skipFirstLine,omitempty"`
	SkipEmptyLines *bool             `json:"skipEmptyLines,omitempty" yaml:"skipEmptyLines,omitempty"`
	Columns        []string          `json:"columns,omitempty" yaml:"columns,omitempty"`
	Filter         string            `json:"filter,omitempty" yaml:"filter,omitempty"`
	Rename         map[string]string `json:"rename,omitempty" yaml:"rename,omitempty"`
	Variables      map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	Distribution *Distribution `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	ChangePolicy ChangePolicy  `json:"change_policy,omitempty" yaml:"change_policy,omitempty"`

	// Legacy fields, mapped per §4.1.3 when Distribution is nil.
	Mode              LegacyMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Randomize         *bool      `json:"randomize,omitempty" yaml:"randomize,omitempty"`
	CycleOnExhaustion *bool      `json:"cycleOnExhaustion,omitempty" yaml:"cycleOnExhaustion,omitempty"`

	// CacheSize bounds the Provider's vuCache/iterCache via an LRU
	// (domain-stack addition, §10). Zero means unbounded, the spec default.
	CacheSize int `json:"cacheSize,omitempty" yaml:"cacheSize,omitempty"`
}

// ResolvedPolicy is the fully normalised {scope, order, exhaustion,
// changePolicy} tuple a Provider actually runs with, produced by Resolve().
type ResolvedPolicy struct {
	Scope        Scope
	Order        Order
	OnExhausted  Exhaustion
	ChangePolicy ChangePolicy
}

// Resolve applies the defaulting and legacy-mapping rules in §4.1.3 and
// returns the concrete policy a Provider enforces.
func (c *ProviderConfig) Resolve() ResolvedPolicy {
	var p ResolvedPolicy

	if c.Distribution != nil {
		p.Scope = c.Distribution.Scope
		p.Order = c.Distribution.Order
		p.OnExhausted = c.Distribution.OnExhausted
	} else {
		switch c.Mode {
		case LegacyUnique:
			p.Scope, p.Order, p.OnExhausted = ScopeUnique, OrderSequential, ExhaustionStopVU
		case LegacyRandom:
			p.Scope, p.Order, p.OnExhausted = ScopeGlobal, OrderRandom, ExhaustionCycle
		case LegacyNext:
			p.Scope, p.Order, p.OnExhausted = ScopeGlobal, OrderSequential, ExhaustionCycle
		}
	}

	if p.Scope == "" {
		p.Scope = ScopeGlobal
	}

	if p.Order == "" {
		if c.Randomize != nil && *c.Randomize {
			p.Order = OrderRandom
		} else {
			p.Order = OrderSequential
		}
	}

	if p.OnExhausted == "" {
		if c.CycleOnExhaustion != nil && !*c.CycleOnExhaustion {
			p.OnExhausted = ExhaustionStopVU
		} else {
			p.OnExhausted = ExhaustionCycle
		}
	}

	p.ChangePolicy = c.ChangePolicy
	if p.ChangePolicy == "" {
		p.ChangePolicy = ChangeEachIteration
	}

	return p
}

// Fingerprint returns a stable string identity for this config, suitable
// for Registry lookups. It renders fields in a fixed order rather than
// hashing Go's unordered map iteration, so two structurally identical
// configs always fingerprint identically.
func (c *ProviderConfig) Fingerprint() string {
	var sb strings.Builder

	boolPtr := func(b *bool) string {
		if b == nil {
			return "nil"
		}
		return fmt.Sprintf("%v", *b)
	}

	fmt.Fprintf(&sb, "file=%s;encoding=%s;delimiter=%s;skipFirstLine=%s;skipEmptyLines=%s;",
		c.File, c.Encoding, c.Delimiter, boolPtr(c.SkipFirstLine), boolPtr(c.SkipEmptyLines))

	cols := append([]string(nil), c.Columns...)
	sort.Strings(cols)
	fmt.Fprintf(&sb, "columns=%s;filter=%s;", strings.Join(cols, ","), c.Filter)

	sb.WriteString("rename=")
	writeSortedMap(&sb, c.Rename)
	sb.WriteString(";variables=")
	writeSortedMap(&sb, c.Variables)

	p := c.Resolve()
	fmt.Fprintf(&sb, ";scope=%s;order=%s;onExhausted=%s;changePolicy=%s;cacheSize=%d",
		p.Scope, p.Order, p.OnExhausted, p.ChangePolicy, c.CacheSize)

	return sb.String()
}

func writeSortedMap(sb *strings.Builder, m map[string]string) {
	if len(m) == 0 {
		sb.WriteString("{}")
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(sb, "%s=%s", k, m[k])
	}
	sb.WriteString("}")
}

// Validate checks the config for structural errors, using the same
// ValidationError/ValidationErrors idiom as
// internal/performance/v2/config.ValidationErrors.
func (c *ProviderConfig) Validate() error {
	errs := &ValidationErrors{}

	if c.File == "" {
		errs.Add("file", "file is required")
	}

	switch c.Mode {
	case "", LegacyUnique, LegacyRandom, LegacyNext:
	default:
		errs.Add("mode", fmt.Sprintf("unknown legacy mode: %s", c.Mode))
	}

	if d := c.Distribution; d != nil {
		switch d.Scope {
		case "", ScopeLocal, ScopeGlobal, ScopeUnique:
		default:
			errs.Add("distribution.scope", fmt.Sprintf("unknown scope: %s", d.Scope))
		}
		switch d.Order {
		case "", OrderSequential, OrderRandom:
		default:
			errs.Add("distribution.order", fmt.Sprintf("unknown order: %s", d.Order))
		}
		switch d.OnExhausted {
		case "", ExhaustionCycle, ExhaustionStopVU, ExhaustionStopTest, ExhaustionNoValue:
		default:
			errs.Add("distribution.on_exhausted", fmt.Sprintf("unknown on_exhausted: %s", d.OnExhausted))
		}
	}

	switch c.ChangePolicy {
	case "", ChangeEachUse, ChangeEachIteration, ChangeEachVU:
	default:
		errs.Add("change_policy", fmt.Sprintf("unknown change_policy: %s", c.ChangePolicy))
	}

	if len(c.Rename) > 0 && len(c.Columns) > 0 {
		suggestRenameTargets(c.Columns, c.Rename, errs)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
