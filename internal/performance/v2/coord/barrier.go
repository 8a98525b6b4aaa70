package coord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reason identifies why a Wait call returned.
type Reason string

const (
	ReasonCountReached Reason = "count_reached"
	ReasonTimeout      Reason = "timeout"
	ReasonInactive     Reason = "inactive"
	ReasonError        Reason = "error"
)

// ReleasePolicy decides how many waiters drain on a count-reached release.
type ReleasePolicy string

const (
	ReleaseAll   ReleasePolicy = "all"
	ReleaseCount ReleasePolicy = "count"
)

const (
	defaultTimeoutMs     = 30000
	defaultReleasePolicy = ReleaseAll
)

// PointConfig describes one named rendezvous point (§4.3, §6).
//
// TimeoutMs is a pointer so an unset field and an explicit zero are
// distinguishable: nil takes the 30s default, and a configured 0 means no
// timer at all, so waiters block indefinitely for their cohort.
type PointConfig struct {
	Name          string
	Count         int
	TimeoutMs     *int
	ReleasePolicy ReleasePolicy
}

// Validate checks the config for structural errors.
func (c *PointConfig) Validate() error {
	errs := &ValidationErrors{}
	if c.Name == "" {
		errs.Add("name", "name is required")
	}
	if c.Count <= 0 {
		errs.Add("count", "count must be greater than 0")
	}
	switch c.ReleasePolicy {
	case "", ReleaseAll, ReleaseCount:
	default:
		errs.Add("releasePolicy", fmt.Sprintf("unknown release policy: %s", c.ReleasePolicy))
	}
	if c.TimeoutMs != nil && *c.TimeoutMs < 0 {
		errs.Add("timeoutMs", "timeoutMs must not be negative")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (c PointConfig) resolved() PointConfig {
	if c.TimeoutMs == nil {
		d := defaultTimeoutMs
		c.TimeoutMs = &d
	}
	if c.ReleasePolicy == "" {
		c.ReleasePolicy = defaultReleasePolicy
	}
	return c
}

// Result is what Wait returns on success (including the non-error
// "inactive" and "timeout" outcomes).
type Result struct {
	Released   bool
	Reason     Reason
	WaitTimeMs int64
	CohortSize int
}

// WaitTicket is one VU's place in a point's waiter queue.
type WaitTicket struct {
	VUID        int
	TicketID    uuid.UUID
	ArrivalTime time.Time
	resume      chan outcome
}

type outcome struct {
	result Result
	err    error
}

// Observer receives barrier arrival/release events. It is a narrow callback
// list, not an inherited event-bus base class (§9 Design Notes).
type Observer interface {
	Arrived(name string, vuID int, waitingCount, requiredCount int)
	Released(name string, releasedCount int, reason Reason)
}

// point is one named rendezvous point's live state, created on first
// arrival and destroyed only on barrier reset (stop drains it but keeps it).
type point struct {
	config PointConfig

	mu      sync.Mutex
	waiters []*WaitTicket
	released int
	timer   *time.Timer

	histMu sync.Mutex
	hist   *waitHistogram

	observers []Observer
}

func newPoint(cfg PointConfig, observers []Observer) *point {
	return &point{
		config:    cfg.resolved(),
		hist:      newWaitHistogram(),
		observers: observers,
	}
}

// wait registers vuID's ticket at this point and blocks until released,
// timed out, stopped, or reset.
func (pt *point) wait(ctx context.Context, vuID int) (Result, error) {
	ticket := &WaitTicket{
		VUID:        vuID,
		TicketID:    uuid.New(),
		ArrivalTime: time.Now(),
		resume:      make(chan outcome, 1),
	}

	pt.mu.Lock()
	pt.waiters = append(pt.waiters, ticket)
	waitingCount := len(pt.waiters)

	var toRelease []*WaitTicket
	reason := Reason("")

	if len(pt.waiters) >= pt.config.Count {
		if pt.timer != nil {
			pt.timer.Stop()
			pt.timer = nil
		}
		if pt.config.ReleasePolicy == ReleaseCount {
			toRelease = append([]*WaitTicket(nil), pt.waiters[:pt.config.Count]...)
			pt.waiters = pt.waiters[pt.config.Count:]
		} else {
			toRelease = pt.waiters
			pt.waiters = nil
		}
		reason = ReasonCountReached
		pt.released += len(toRelease)
		if len(pt.waiters) > 0 && *pt.config.TimeoutMs > 0 {
			pt.armTimerLocked()
		}
	} else if pt.timer == nil && *pt.config.TimeoutMs > 0 {
		pt.armTimerLocked()
	}
	pt.mu.Unlock()

	pt.notifyArrived(vuID, waitingCount, pt.config.Count)
	if toRelease != nil {
		pt.deliverRelease(toRelease, reason)
	}

	select {
	case out := <-ticket.resume:
		return out.result, out.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// armTimerLocked must be called with pt.mu held.
func (pt *point) armTimerLocked() {
	timeout := time.Duration(*pt.config.TimeoutMs) * time.Millisecond
	pt.timer = time.AfterFunc(timeout, pt.onTimeout)
}

// onTimeout re-enters the point's mutex to drain whatever waiters remain,
// per the §5 timer model ("timers run outside the region and re-enter it to
// drain waiters").
func (pt *point) onTimeout() {
	pt.mu.Lock()
	pt.timer = nil
	waiters := pt.waiters
	pt.waiters = nil
	if len(waiters) > 0 {
		pt.released += len(waiters)
	}
	pt.mu.Unlock()

	if len(waiters) == 0 {
		return
	}
	pt.deliverRelease(waiters, ReasonTimeout)
}

// drainAll wakes every current waiter with the same outcome, used by
// Barrier.Stop and Barrier.Reset.
func (pt *point) drainAll(res Result, err error) {
	pt.mu.Lock()
	if pt.timer != nil {
		pt.timer.Stop()
		pt.timer = nil
	}
	waiters := pt.waiters
	pt.waiters = nil
	pt.mu.Unlock()

	for _, t := range waiters {
		t.resume <- outcome{res, err}
	}
}

func (pt *point) deliverRelease(tickets []*WaitTicket, reason Reason) {
	now := time.Now()
	cohortSize := len(tickets)
	for _, t := range tickets {
		waitMs := now.Sub(t.ArrivalTime).Milliseconds()
		pt.recordWait(waitMs)
		t.resume <- outcome{Result{
			Released:   true,
			Reason:     reason,
			WaitTimeMs: waitMs,
			CohortSize: cohortSize,
		}, nil}
	}
	pt.notifyReleased(cohortSize, reason)
}

func (pt *point) recordWait(waitMs int64) {
	pt.histMu.Lock()
	pt.hist.Record(waitMs)
	pt.histMu.Unlock()
}

func (pt *point) notifyArrived(vuID int, waitingCount, requiredCount int) {
	for _, o := range pt.observers {
		o.Arrived(pt.config.Name, vuID, waitingCount, requiredCount)
	}
}

func (pt *point) notifyReleased(releasedCount int, reason Reason) {
	for _, o := range pt.observers {
		o.Released(pt.config.Name, releasedCount, reason)
	}
}

func (pt *point) stats() PointStats {
	pt.mu.Lock()
	waiting := len(pt.waiters)
	released := pt.released
	name := pt.config.Name
	pt.mu.Unlock()

	pt.histMu.Lock()
	p50, p95, max := pt.hist.Quantiles()
	pt.histMu.Unlock()

	return PointStats{
		Name:       name,
		Waiting:    waiting,
		Released:   released,
		P50WaitMs:  p50,
		P95WaitMs:  p95,
		MaxWaitMs:  max,
	}
}

// PointStats is the snapshot returned by Barrier.Stats/AllStats.
type PointStats struct {
	Name      string
	Waiting   int
	Released  int
	P50WaitMs int64
	P95WaitMs int64
	MaxWaitMs int64
}

// Barrier is the process-wide RendezvousBarrier (§4.3). Rather than a
// package-level singleton, it is an explicitly constructed runtime object a
// harness owns and can Reset/Stop between or during test runs, keeping
// tests hermetic (§9 Design Notes).
type Barrier struct {
	mu        sync.Mutex
	active    bool
	points    map[string]*point
	observers []Observer
}

// NewBarrier returns an active Barrier with no points.
func NewBarrier() *Barrier {
	return &Barrier{active: true, points: make(map[string]*point)}
}

// AddObserver registers an observer for every point's arrived/released
// events, present and future.
func (b *Barrier) AddObserver(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

// Wait blocks vuID at the named point until its cohort forms, the point's
// timer fires, or the barrier is stopped/reset.
func (b *Barrier) Wait(ctx context.Context, cfg PointConfig, vuID int) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	_, span := startSpan(ctx, "rampart.coord.wait")
	defer span.End()

	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return Result{Released: true, Reason: ReasonInactive}, nil
	}

	pt, ok := b.points[cfg.Name]
	if !ok {
		pt = newPoint(cfg, b.observers)
		b.points[cfg.Name] = pt
	}
	b.mu.Unlock()

	return pt.wait(ctx, vuID)
}

// Stop wakes all current waiters with released=true, reason=inactive and
// keeps the barrier inactive: subsequent Wait calls return inactive
// synchronously.
func (b *Barrier) Stop() {
	b.mu.Lock()
	b.active = false
	pts := b.pointList()
	b.mu.Unlock()

	for _, pt := range pts {
		pt.drainAll(Result{Released: true, Reason: ReasonInactive}, nil)
	}
}

// Reset wakes all current waiters with ErrBarrierReset, clears every point,
// and makes the barrier active again.
func (b *Barrier) Reset() {
	b.mu.Lock()
	pts := b.pointList()
	b.points = make(map[string]*point)
	b.active = true
	b.mu.Unlock()

	for _, pt := range pts {
		pt.drainAll(Result{}, ErrBarrierReset)
	}
}

func (b *Barrier) pointList() []*point {
	out := make([]*point, 0, len(b.points))
	for _, pt := range b.points {
		out = append(out, pt)
	}
	return out
}

// Stats returns the current snapshot for one named point.
func (b *Barrier) Stats(name string) (PointStats, bool) {
	b.mu.Lock()
	pt, ok := b.points[name]
	b.mu.Unlock()
	if !ok {
		return PointStats{}, false
	}
	return pt.stats(), true
}

// AllStats returns the current snapshot for every known point.
func (b *Barrier) AllStats() []PointStats {
	b.mu.Lock()
	pts := b.pointList()
	b.mu.Unlock()

	out := make([]PointStats, 0, len(pts))
	for _, pt := range pts {
		out = append(out, pt.stats())
	}
	return out
}
