package network

import "github.com/fieldmesh/sparsenet/scheduler"

// FiredQueueKey is the standalone, comparable sort key of a Fired step,
// kept a concrete exported type rather than folded anonymously into
// Fired.SortValue, so the key itself is directly testable and comparable
// without constructing a whole Activation.
type FiredQueueKey struct {
	ActivationID int
	Quantized    int64
}

// Less orders two keys so that a larger net value (smaller Quantized, since
// Quantized is negated) dequeues first, breaking ties by activation id for
// a deterministic total order.
func (k FiredQueueKey) Less(o FiredQueueKey) bool {
	if k.Quantized != o.Quantized {
		return k.Quantized < o.Quantized
	}
	return k.ActivationID < o.ActivationID
}

// Fired is the scheduler.Step scheduled when an Activation's net-input
// field first crosses its threshold. Its sort value is the negated
// quantization of the net value, so that within PhaseFired's ascending
// QueueKey order a larger net dequeues, and therefore fires, earlier.
type Fired struct {
	scheduler.Base
	act *Activation
	net float64
}

func newFired(act *Activation, net float64) *Fired {
	return &Fired{act: act, net: net}
}

func (f *Fired) Phase() scheduler.Phase { return scheduler.PhaseFired }

// NextRound is always false: a Fired step runs in the round its
// triggering field update committed in.
func (f *Fired) NextRound() bool { return false }

// Key returns the standalone FiredQueueKey for this step, independent of
// the scheduler.QueueKey the Queue assigns once the step is enqueued.
func (f *Fired) Key() FiredQueueKey {
	return FiredQueueKey{ActivationID: f.act.id, Quantized: -scheduler.Quantize(f.net)}
}

func (f *Fired) SortValue() int64 { return f.Key().Quantized }

func (f *Fired) setNet(net float64) { f.net = net }

// Process stamps fired,
// registers the activation against each of its non-null binding signals,
// then hands the activation to the Context's Linker for outgoing linking.
func (f *Fired) Process() error {
	f.act.fired = f.TimestampOnProcess
	for _, bs := range f.act.bindingSignals {
		if bs != nil {
			bs.AddActivation(f.act)
		}
	}
	return f.act.ctx.linker.linkOutgoing(f.act)
}
