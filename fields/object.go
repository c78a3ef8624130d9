package fields

import "fmt"

// Object is a container with a Type pointer and per-field storage, able
// to follow relations and read/allocate fields. Concrete domain types
// (network.Neuron's Activation, for instance) embed *BaseObject for
// storage and implement Follow themselves, since relation traversal is
// inherently domain-specific.
type Object interface {
	Type() *Type
	// FieldAt reads a field by OUTPUT-side slot index, returning nil if
	// that slot has never been written.
	FieldAt(slot int) *Field
	// GetOrCreateFieldInput returns fd's Field on this object, indexed by
	// INPUT-side slot, allocating and initializing it on first access.
	GetOrCreateFieldInput(fd *FieldDefinition) *Field
	// Follow enumerates the related objects reachable via rel. A "one" or
	// "self" relation returns at most one element; "many" may return any
	// number.
	Follow(rel *Relation) []Object
	// Key returns a string identifying this object, used for diagnostics
	// and map keys where a string is more convenient than the concrete id.
	Key() string
}

// BaseObject is the embeddable storage for Object implementations: a
// fixed-size field array sized to the larger of the type's input-side and
// output-side slot counts (input and output slots coincide for merged,
// same-named fields; output-only slots can extend past the input range,
// so the array is sized to whichever side needs more room).
type BaseObject struct {
	typ    *Type
	fields []*Field
	self   Object // set by Init so FieldDefinition.InitializeField sees the embedding type, not BaseObject
}

// Init must be called by the embedding constructor once, passing the fully
// constructed Object (so initializeField callbacks observe the real type).
// An object created before its type is flattened starts with an empty
// array; GetOrCreateFieldInput grows it on first access.
func (o *BaseObject) Init(self Object, typ *Type) {
	o.self = self
	o.typ = typ
	size := 0
	if in := typ.FlattenedInput(); in != nil {
		size = in.NumberOfFields()
	}
	if out := typ.FlattenedOutput(); out != nil && out.NumberOfFields() > size {
		size = out.NumberOfFields()
	}
	o.fields = make([]*Field, size)
}

func (o *BaseObject) Type() *Type { return o.typ }

// FieldAt reads by output-side slot index.
func (o *BaseObject) FieldAt(slot int) *Field {
	if slot < 0 || slot >= len(o.fields) {
		return nil
	}
	return o.fields[slot]
}

// GetOrCreateFieldInput allocates (and, on first allocation, initializes)
// the Field for fd at its input-side slot.
func (o *BaseObject) GetOrCreateFieldInput(fd *FieldDefinition) *Field {
	slot := o.typ.FlattenedInput().SlotFor(fd.id)
	if slot < 0 {
		// fd has no input-side slot on this type (e.g. a pure source
		// field); fall back to its output-side slot so callers can still
		// read/seed it directly.
		slot = o.typ.FlattenedOutput().SlotFor(fd.id)
	}
	if slot < 0 {
		return nil
	}
	if slot >= len(o.fields) {
		grown := make([]*Field, slot+1)
		copy(grown, o.fields)
		o.fields = grown
	}
	if o.fields[slot] == nil {
		f := newField(o.self, fd, slot)
		o.fields[slot] = f
		fd.InitializeField(f)
	}
	return o.fields[slot]
}

func (o *BaseObject) Key() string {
	return fmt.Sprintf("%s#%p", o.typ.Name(), o)
}
