package services

import (
	"sync"
	"time"

	"bluebay/internal/domain"
	"bluebay/internal/utils"
)

// DefaultPriceChangeDebounce is the minimum delay between consecutive
// OnChange invocations while the user is still typing.
const DefaultPriceChangeDebounce = 500 * time.Millisecond

// PricingEngine owns the pax counts and per-pax prices of one booking form
// and pushes the derived totals to its consumer. Notifications are deduped
// by input value and rate-limited: a change landing inside the debounce
// window schedules a single deferred invocation that supersedes any still
// pending one.
type PricingEngine struct {
	// Debounce overrides the propagation window when positive.
	Debounce time.Duration
	// Clock is a test seam; nil means time.Now.
	Clock func() time.Time

	onChange func(domain.PricingSnapshot)

	mu       sync.Mutex
	inputs   domain.PricingInputs
	snapshot domain.PricingSnapshot

	seeded        bool
	lastSent      domain.PricingInputs
	lastInvokedAt time.Time
	pending       *time.Timer
	pendingGen    uint64
}

// NewPricingEngine computes the initial snapshot from initial and seeds the
// change baseline with it. That first computation never notifies; only
// later edits do.
func NewPricingEngine(initial domain.PricingInputs, onChange func(domain.PricingSnapshot)) *PricingEngine {
	e := &PricingEngine{onChange: onChange}
	e.inputs = initial
	e.snapshot = domain.ComputePricing(initial)
	e.seeded = true
	e.lastSent = initial
	return e
}

// SetCount applies a raw count field for adult, child or infant. Empty,
// non-numeric and negative input all resolve to zero. The tax category has
// no headcount and is ignored here.
func (e *PricingEngine) SetCount(category domain.PaxCategory, raw string) {
	n := utils.ParseCount(raw)
	e.apply(func(in *domain.PricingInputs) {
		switch category {
		case domain.PaxAdult:
			in.AdultCount = n
		case domain.PaxChild:
			in.ChildCount = n
		case domain.PaxInfant:
			in.InfantCount = n
		}
	})
}

// SetPrice applies a raw per-pax price for adult, child, infant or tax,
// with the same empty/invalid/negative degradation as SetCount.
func (e *PricingEngine) SetPrice(category domain.PaxCategory, raw string) {
	v := utils.ParseAmount(raw)
	e.apply(func(in *domain.PricingInputs) {
		switch category {
		case domain.PaxAdult:
			in.AdultPrice = v
		case domain.PaxChild:
			in.ChildPrice = v
		case domain.PaxInfant:
			in.InfantPrice = v
		case domain.PaxTax:
			in.TaxPerPax = v
		}
	})
}

// Snapshot returns the current derived-and-input state by value.
func (e *PricingEngine) Snapshot() domain.PricingSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Reset restores every input to zero and re-arms the first-notification
// suppression, so a fresh form does not ping the consumer.
func (e *PricingEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	e.pendingGen++
	e.inputs = domain.PricingInputs{}
	e.snapshot = domain.ComputePricing(e.inputs)
	e.lastSent = e.inputs
	e.lastInvokedAt = time.Time{}
}

func (e *PricingEngine) apply(mutate func(*domain.PricingInputs)) {
	var fire bool
	var snap domain.PricingSnapshot

	e.mu.Lock()
	mutate(&e.inputs)
	e.snapshot = domain.ComputePricing(e.inputs)
	snap = e.snapshot

	switch {
	case !e.seeded:
		e.seeded = true
		e.lastSent = e.inputs
	case e.inputs == e.lastSent:
		// recompute without an actual input change; stay quiet
	default:
		e.lastSent = e.inputs
		now := e.now()
		if now.Sub(e.lastInvokedAt) >= e.window() {
			e.lastInvokedAt = now
			e.cancelPendingLocked()
			fire = true
		} else {
			e.scheduleLocked(snap)
		}
	}
	e.mu.Unlock()

	if fire && e.onChange != nil {
		e.onChange(snap)
	}
}

// scheduleLocked arms the single deferred invocation. A newer schedule
// replaces the older one: only the most recent pending call ever fires.
func (e *PricingEngine) scheduleLocked(snap domain.PricingSnapshot) {
	e.cancelPendingLocked()
	e.pendingGen++
	gen := e.pendingGen
	e.pending = time.AfterFunc(e.window(), func() {
		e.firePending(gen, snap)
	})
}

func (e *PricingEngine) cancelPendingLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	e.pendingGen++
}

func (e *PricingEngine) firePending(gen uint64, snap domain.PricingSnapshot) {
	e.mu.Lock()
	if gen != e.pendingGen {
		// superseded after this timer already started firing
		e.mu.Unlock()
		return
	}
	e.pending = nil
	e.lastInvokedAt = e.now()
	e.mu.Unlock()

	if e.onChange != nil {
		e.onChange(snap)
	}
}

func (e *PricingEngine) window() time.Duration {
	if e.Debounce > 0 {
		return e.Debounce
	}
	return DefaultPriceChangeDebounce
}

func (e *PricingEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}
