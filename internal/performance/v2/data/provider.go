package data

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// checkoutEntry tracks who holds a scope=unique row and when.
type checkoutEntry struct {
	vuID         int
	iteration    int64
	checkoutTime time.Time
}

type iterKey struct {
	vuID      int
	iteration int64
}

// Status is a point-in-time snapshot of a Provider's counters, exposed for
// introspection (status()) and for the "rampart data inspect" CLI command.
type Status struct {
	TotalRows    int
	Available    int
	CheckedOut   int
	Exhausted    bool
	StoppedVUs   int
	GlobalCursor int
}

// GetRowResult is the {row?, exhausted, action?} tuple getRow returns.
type GetRowResult struct {
	Row       *Row
	Exhausted bool
	Reason    ExhaustionReason
}

// Provider owns one tabular source and enforces its distribution, change,
// and exhaustion policies for every VU that reads from it. One Provider
// instance is shared by every ProviderConfig with an identical
// Fingerprint(); the Registry is the only thing allowed to construct one.
type Provider struct {
	config *ProviderConfig
	policy ResolvedPolicy

	loadOnce sync.Once
	loadErr  error

	mu sync.Mutex

	rows         []*Row
	globalCursor int
	available    []int
	checkedOut   map[int]checkoutEntry
	vuCache      *rowCache[int]
	iterCache    *rowCache[iterKey]
	stoppedVUs   map[int]bool
	exhausted    bool

	rng *rand.Rand
}

// newProvider is called only from Registry.Acquire.
func newProvider(cfg *ProviderConfig) *Provider {
	return &Provider{
		config:     cfg,
		policy:     cfg.Resolve(),
		checkedOut: make(map[int]checkoutEntry),
		stoppedVUs: make(map[int]bool),
		vuCache:    newRowCache[int](cfg.CacheSize),
		iterCache:  newRowCache[iterKey](cfg.CacheSize),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Load reads the source exactly once; concurrent and repeated callers all
// observe the same outcome (R1, §5 load-gate).
func (p *Provider) Load() error {
	p.loadOnce.Do(func() {
		p.loadErr = p.doLoad()
	})
	return p.loadErr
}

func (p *Provider) doLoad() error {
	reader := &Reader{
		Delimiter:      delimiterRune(p.config.Delimiter),
		SkipFirstLine:  boolOr(p.config.SkipFirstLine, true),
		SkipEmptyLines: boolOr(p.config.SkipEmptyLines, true),
		Columns:        p.config.Columns,
		Rename:         p.config.Rename,
	}

	result, err := reader.Read(p.config.File)
	if err != nil {
		return err
	}

	filter := parseFilter(p.config.Filter)
	rows := result.Rows
	if filter != nil {
		filtered := rows[:0:0]
		for _, r := range rows {
			if filter.Match(r) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	if len(rows) == 0 {
		return ErrNoData
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.rows = rows
	p.available = make([]int, len(rows))
	for i := range p.available {
		p.available[i] = i
	}
	if p.policy.Order == OrderRandom {
		p.rng.Shuffle(len(p.available), func(i, j int) {
			p.available[i], p.available[j] = p.available[j], p.available[i]
		})
	}
	return nil
}

func delimiterRune(s string) rune {
	if s == "" {
		return 0
	}
	return []rune(s)[0]
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// GetRow implements the §4.1 public contract.
func (p *Provider) GetRow(ctx context.Context, vuID int, iteration int64) (GetRowResult, error) {
	if err := p.Load(); err != nil {
		return GetRowResult{}, err
	}

	_, span := startSpan(ctx, "rampart.data.get_row")
	defer span.End()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stoppedVUs[vuID] {
		return GetRowResult{Exhausted: true, Reason: ReasonStopVU}, nil
	}

	if p.policy.ChangePolicy == ChangeEachVU {
		if cached, ok := p.vuCache.get(vuID); ok {
			return GetRowResult{Row: cached}, nil
		}
	}

	if p.policy.ChangePolicy == ChangeEachIteration {
		key := iterKey{vuID: vuID, iteration: iteration}
		if cached, ok := p.iterCache.get(key); ok {
			return GetRowResult{Row: cached}, nil
		}
	}

	result := p.selectRow(vuID, iteration)
	if result.Row != nil {
		switch p.policy.ChangePolicy {
		case ChangeEachVU:
			p.vuCache.set(vuID, result.Row)
		case ChangeEachIteration:
			p.iterCache.set(iterKey{vuID: vuID, iteration: iteration}, result.Row)
		}
	}
	return result, nil
}

// selectRow must be called with p.mu held. It implements §4.1.1 row
// selection and §4.1.2 exhaustion dispatch.
func (p *Provider) selectRow(vuID int, iteration int64) GetRowResult {
	switch p.policy.Scope {
	case ScopeLocal:
		return p.selectLocal(vuID)
	case ScopeGlobal:
		return p.selectGlobal(vuID)
	case ScopeUnique:
		return p.selectUnique(vuID, iteration)
	default:
		return p.selectGlobal(vuID)
	}
}

func (p *Provider) selectLocal(vuID int) GetRowResult {
	n := len(p.rows)
	var idx int
	if p.policy.Order == OrderRandom {
		idx = p.rng.Intn(n)
	} else {
		idx = (vuID - 1) % n
		if idx < 0 {
			idx += n
		}
	}
	return GetRowResult{Row: p.rows[idx].Clone()}
}

func (p *Provider) selectGlobal(vuID int) GetRowResult {
	n := len(p.rows)

	if p.policy.Order == OrderRandom {
		idx := p.rng.Intn(n)
		return GetRowResult{Row: p.rows[idx].Clone()}
	}

	if p.globalCursor >= n {
		if p.policy.OnExhausted != ExhaustionCycle {
			return p.dispatchExhaustion(vuID, true)
		}
		p.globalCursor = 0
	}

	idx := p.globalCursor
	p.globalCursor++
	return GetRowResult{Row: p.rows[idx].Clone()}
}

func (p *Provider) selectUnique(vuID int, iteration int64) GetRowResult {
	if len(p.available) == 0 {
		if p.policy.OnExhausted == ExhaustionCycle {
			if len(p.checkedOut) > 0 {
				// Soft wait (§5 suspension point #2): caller retries on the
				// next step boundary instead of blocking inside the provider.
				return GetRowResult{}
			}
			p.repopulateAvailable()
		} else {
			return p.dispatchExhaustion(vuID, false)
		}
	}

	var idx int
	if p.policy.Order == OrderRandom {
		pos := p.rng.Intn(len(p.available))
		idx = p.available[pos]
		p.available = append(p.available[:pos], p.available[pos+1:]...)
	} else {
		idx = p.available[0]
		p.available = p.available[1:]
	}

	p.checkedOut[idx] = checkoutEntry{vuID: vuID, iteration: iteration, checkoutTime: time.Now()}
	return GetRowResult{Row: p.rows[idx].Clone()}
}

func (p *Provider) repopulateAvailable() {
	p.available = make([]int, len(p.rows))
	for i := range p.available {
		p.available[i] = i
	}
	if p.policy.Order == OrderRandom {
		p.rng.Shuffle(len(p.available), func(i, j int) {
			p.available[i], p.available[j] = p.available[j], p.available[i]
		})
	}
	p.exhausted = false
}

// dispatchExhaustion implements §4.1.2. persist controls whether a
// stop_vu outcome is latched into stoppedVUs: it is true for scope=global's
// cursor-wrap path (there's no release mechanism there, so permanent
// blocking is the only sensible reading of I6) and false for scope=unique's
// empty-pool path, where a later releaseRow can replenish the pool and a
// concrete spec scenario (§8 scenario 2) requires the same VU to receive a
// fresh row afterward.
func (p *Provider) dispatchExhaustion(vuID int, persist bool) GetRowResult {
	p.exhausted = true

	switch p.policy.OnExhausted {
	case ExhaustionStopTest:
		return GetRowResult{Exhausted: true, Reason: ReasonStopTest}
	case ExhaustionStopVU:
		if persist {
			p.stoppedVUs[vuID] = true
		}
		return GetRowResult{Exhausted: true, Reason: ReasonStopVU}
	case ExhaustionNoValue:
		return GetRowResult{Exhausted: true, Reason: ReasonNoValue}
	case ExhaustionCycle:
		p.globalCursor = 0
		idx := 0
		p.globalCursor = 1
		p.exhausted = false
		return GetRowResult{Row: p.rows[idx].Clone()}
	default:
		return GetRowResult{Exhausted: true, Reason: ReasonNoValue}
	}
}

// ReleaseRow reverses a checkout for scope=unique (§4.1, R2). It is a no-op
// for every other scope.
func (p *Provider) ReleaseRow(vuID int, iteration int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.policy.Scope != ScopeUnique {
		return
	}

	idx, ok := p.findCheckedOut(vuID, iteration)
	if !ok {
		return
	}

	delete(p.checkedOut, idx)
	p.insertAvailable(idx)

	if p.policy.ChangePolicy == ChangeEachIteration {
		p.iterCache.delete(iterKey{vuID: vuID, iteration: iteration})
	}

	if len(p.available) > 0 {
		p.exhausted = false
	}
}

func (p *Provider) findCheckedOut(vuID int, iteration int64) (int, bool) {
	for idx, e := range p.checkedOut {
		if e.vuID != vuID {
			continue
		}
		if p.policy.ChangePolicy == ChangeEachIteration && e.iteration != iteration {
			continue
		}
		return idx, true
	}
	return 0, false
}

// insertAvailable preserves order=sequential's ascending invariant;
// order=random simply appends.
func (p *Provider) insertAvailable(idx int) {
	if p.policy.Order != OrderRandom {
		pos := sort.SearchInts(p.available, idx)
		p.available = append(p.available, 0)
		copy(p.available[pos+1:], p.available[pos:])
		p.available[pos] = idx
		return
	}
	p.available = append(p.available, idx)
}

// Status returns a snapshot of the Provider's counters.
func (p *Provider) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		TotalRows:    len(p.rows),
		Available:    len(p.available),
		CheckedOut:   len(p.checkedOut),
		Exhausted:    p.exhausted,
		StoppedVUs:   len(p.stoppedVUs),
		GlobalCursor: p.globalCursor,
	}
}
