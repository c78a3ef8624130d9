/*
=================================================================================
FIELD - PER-OBJECT RUNTIME VALUE AND PROPAGATION
=================================================================================

Field is the runtime half of FieldDefinition: a single scalar slot on one
Object, holding a committed value and, while an update is in flight, a
separate updatedValue. Propagation walks the owning object's output-side
links and hands deltas to each consumer's Transmit - integrate, then
commit, then notify.
=================================================================================
*/
package fields

import (
	"math"

	"github.com/fieldmesh/sparsenet/errs"
)

// Field is the per-object runtime instance of a FieldDefinition.
type Field struct {
	obj          Object
	def          *FieldDefinition
	slot         int
	value        float64
	updatedValue float64
	withinUpdate bool
	interceptor  *QueueInterceptor
	onCommit     func(*Field) error
}

func newField(obj Object, def *FieldDefinition, slot int) *Field {
	return &Field{obj: obj, def: def, slot: slot}
}

func (f *Field) Object() Object              { return f.obj }
func (f *Field) Definition() *FieldDefinition { return f.def }
func (f *Field) Slot() int                   { return f.slot }
func (f *Field) Value() float64              { return f.value }
func (f *Field) WithinUpdate() bool          { return f.withinUpdate }

// GetUpdate returns the delta currently accumulating mid-propagation
// (updatedValue - value), used by Direction.transmit's OUTPUT-side policy
// to forward "the delta" rather than the raw absolute value.
func (f *Field) GetUpdate() float64 { return f.updatedValue - f.value }

// SetInterceptor installs ic as this field's scheduling interceptor. A nil
// interceptor means updates propagate synchronously with no coalescing -
// the bypass path for fields with no scheduler.
func (f *Field) SetInterceptor(ic *QueueInterceptor) { f.interceptor = ic }

func (f *Field) Interceptor() *QueueInterceptor { return f.interceptor }

// SetOnCommit installs a callback invoked every time propagateUpdate
// commits a new value to this field. The network package uses this to
// drive Activation.updateFiredStep from the generic field graph without
// the fields package needing to know anything about activations or firing
// - the hook is the one deliberate seam between the two layers. Safe to
// call repeatedly with the same field; it simply replaces the callback.
func (f *Field) SetOnCommit(fn func(*Field) error) { f.onCommit = fn }

// SetValue seeds or overwrites the field's committed value by computing
// the equivalent delta and routing it through the normal update pipeline.
func (f *Field) SetValue(v float64) error {
	return f.receiveUpdate(v - f.value)
}

// receiveUpdate is FieldDefinition.ReceiveUpdate's landing point on the
// concrete Field: tolerance gate first, then interceptor delegation or
// direct propagation.
func (f *Field) receiveUpdate(delta float64) error {
	if tol, ok := f.def.Tolerance(); ok && math.Abs(delta) < tol {
		return nil
	}
	if f.interceptor != nil {
		return f.interceptor.ReceiveUpdate(delta, false)
	}
	return f.applyDelta(delta)
}

// TriggerUpdate is called by FieldUpdate.Process with the coalesced,
// already-tolerance-gated accumulated delta once it is dequeued.
func (f *Field) TriggerUpdate(delta float64) error {
	return f.applyDelta(delta)
}

func (f *Field) applyDelta(delta float64) error {
	if f.withinUpdate {
		return &errs.LogicError{Detail: "field re-entered while already within update"}
	}
	f.withinUpdate = true
	f.updatedValue = f.value + delta
	return f.propagateUpdate()
}

// propagateUpdate follows the object's output-side link set for this
// field's definition, invoking each outgoing link's Direction.transmit,
// then commits value = updatedValue and clears withinUpdate.
func (f *Field) propagateUpdate() error {
	for _, link := range f.def.OutputLinks() {
		for _, related := range f.obj.Follow(link.Relation()) {
			if err := Output.transmit(f, link, related, f.GetUpdate()); err != nil {
				f.withinUpdate = false
				return err
			}
		}
	}
	f.value = f.updatedValue
	f.withinUpdate = false
	if f.onCommit != nil {
		return f.onCommit(f)
	}
	return nil
}
