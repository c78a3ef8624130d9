package fields

import "github.com/fieldmesh/sparsenet/scheduler"

// QueueInterceptor owns at most one pending FieldUpdate per field,
// coalescing repeated ReceiveUpdate calls into a single scheduled
// propagation. A QueueInterceptor with a nil queue
// implements the "bypass" path: updates process synchronously the moment
// they arrive, with no scheduling at all.
type QueueInterceptor struct {
	queue   *scheduler.Queue
	field   *Field
	pending *FieldUpdate
}

// NewQueueInterceptor returns an interceptor for field, scheduling its
// FieldUpdate steps onto queue. Pass a nil queue for the synchronous bypass
// path.
func NewQueueInterceptor(queue *scheduler.Queue, field *Field) *QueueInterceptor {
	return &QueueInterceptor{queue: queue, field: field}
}

// ReceiveUpdate gets or creates the pending step, folds delta into it,
// and either enqueues it (first time), lets it ride already-queued, or -
// absent a queue - processes it immediately in place.
func (ic *QueueInterceptor) ReceiveUpdate(delta float64, replace bool) error {
	if ic.pending == nil {
		ic.pending = newFieldUpdate(ic)
	}
	step := ic.pending
	step.updateDelta(delta, replace)

	if delta != 0 && !step.IsQueued() {
		if ic.queue == nil {
			ic.pending = nil
			acc := step.acc
			step.acc = 0
			return ic.field.TriggerUpdate(acc)
		}
		ic.queue.AddStep(step)
	}
	return nil
}
