package fields

import "github.com/fieldmesh/sparsenet/scheduler"

// FieldUpdate is a scheduler.Step that accumulates a delta for one field
// and, once dequeued, commits it via Field.TriggerUpdate. Coalescing
// repeated producer calls into one downstream propagation per scheduler
// turn is exactly what decouples the call sites in this package from the
// unbounded recursion a naive eager-propagation design would hit.
type FieldUpdate struct {
	scheduler.Base
	interceptor *QueueInterceptor
	field       *Field
	acc         float64
	sortValue   int64
}

func newFieldUpdate(ic *QueueInterceptor) *FieldUpdate {
	return &FieldUpdate{interceptor: ic, field: ic.field}
}

// Phase reports the field definition's configured phase, defaulting to
// PhaseInference when none was set.
func (fu *FieldUpdate) Phase() scheduler.Phase {
	if p, ok := fu.field.Definition().Phase(); ok {
		return p
	}
	return scheduler.PhaseInference
}

// NextRound is decided per-step-instance from the field definition's
// IsNextRound flag.
func (fu *FieldUpdate) NextRound() bool { return fu.field.Definition().IsNextRound() }

func (fu *FieldUpdate) SortValue() int64 { return fu.sortValue }

// updateDelta folds delta into the accumulator (resetting first when
// replace is set), recomputes the sort-value, and re-sorts the step in its
// queue if its position changed while already queued.
func (fu *FieldUpdate) updateDelta(delta float64, replace bool) {
	if replace {
		fu.acc = 0
	}
	fu.acc += delta
	newSV := scheduler.Quantize(abs(fu.acc))
	if newSV == fu.sortValue {
		return
	}
	fu.sortValue = newSV
	if fu.IsQueued() {
		fu.interceptor.queue.Resort(fu)
	}
}

// Process clears the interceptor's pending pointer and triggers the
// field's actual propagation with the coalesced delta.
func (fu *FieldUpdate) Process() error {
	fu.interceptor.pending = nil
	acc := fu.acc
	fu.acc = 0
	return fu.field.TriggerUpdate(acc)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
