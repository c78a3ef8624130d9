/*
=================================================================================
FIELD DEFINITION - SCHEMA-LEVEL COMPUTATION NODE
=================================================================================

FieldDefinition is a named computation node owned by exactly one Type,
with a fixed positional arity, optional tolerance and phase, and
input/output link lists. Leaf arithmetic ("Addition", "Multiplication",
...) and ProxyField are not separate Go types: one concrete
FieldDefinition carries optional Transmit/InitializeField function values
supplied at construction time.
=================================================================================
*/
package fields

import (
	"github.com/fieldmesh/sparsenet/scheduler"
)

// TransmitFunc overrides FieldDefinition.Transmit. target is the consuming
// Field, link is the FieldLinkDefinition the update is travelling across,
// and update is the raw delta or pulled value from the producer side.
type TransmitFunc func(fd *FieldDefinition, target *Field, link *FieldLinkDefinition, update float64) error

// InitFunc overrides FieldDefinition.InitializeField.
type InitFunc func(fd *FieldDefinition, field *Field) error

// FieldDefinition is a named computation node owned by exactly one Type.
type FieldDefinition struct {
	id         int
	name       string
	objectType *Type
	numArgs    int

	hasTolerance bool
	tolerance    float64

	hasPhase bool
	phase    scheduler.Phase

	isNextRound bool

	inputLinks  []*FieldLinkDefinition // len == numArgs, indexed by arg position
	outputLinks []*FieldLinkDefinition

	parent   *FieldDefinition
	children []*FieldDefinition

	isProxy     bool
	proxyTarget *FieldDefinition

	transmitFn TransmitFunc
	initFn     InitFunc
}

// newFieldDefinition allocates a FieldDefinition, assigns it a process-wide
// id via the registry, and registers it on objectType. numArgs fixes the
// input-link arity; 0 means a source/input field with no inputs.
func newFieldDefinition(reg *Registry, objectType *Type, name string, numArgs int) *FieldDefinition {
	fd := &FieldDefinition{
		id:         reg.createFieldID(),
		name:       name,
		objectType: objectType,
		numArgs:    numArgs,
		inputLinks: make([]*FieldLinkDefinition, numArgs),
	}
	objectType.addOwnField(fd)
	reg.registerFieldDefinition(fd)
	return fd
}

// newProxyFieldDefinition allocates a ProxyField: a FieldDefinition with no
// input links whose Transmit delegates unconditionally to target's.
func newProxyFieldDefinition(reg *Registry, objectType *Type, name string, target *FieldDefinition) *FieldDefinition {
	fd := newFieldDefinition(reg, objectType, name, 0)
	fd.isProxy = true
	fd.proxyTarget = target
	return fd
}

func (fd *FieldDefinition) ID() int             { return fd.id }
func (fd *FieldDefinition) Name() string        { return fd.name }
func (fd *FieldDefinition) ObjectType() *Type   { return fd.objectType }
func (fd *FieldDefinition) NumArgs() int        { return fd.numArgs }
func (fd *FieldDefinition) IsProxy() bool       { return fd.isProxy }
func (fd *FieldDefinition) IsNextRound() bool   { return fd.isNextRound }
func (fd *FieldDefinition) InputLinks() []*FieldLinkDefinition  { return fd.inputLinks }
func (fd *FieldDefinition) OutputLinks() []*FieldLinkDefinition { return fd.outputLinks }
func (fd *FieldDefinition) Parent() *FieldDefinition            { return fd.parent }

// Tolerance returns the absolute drop threshold and whether one is set.
func (fd *FieldDefinition) Tolerance() (float64, bool) { return fd.tolerance, fd.hasTolerance }

// Phase returns the ProcessingPhase this field's updates schedule onto.
func (fd *FieldDefinition) Phase() (scheduler.Phase, bool) { return fd.phase, fd.hasPhase }

// WithTolerance sets the absolute tolerance gate and returns fd for
// chaining.
func (fd *FieldDefinition) WithTolerance(tol float64) *FieldDefinition {
	fd.tolerance, fd.hasTolerance = tol, true
	return fd
}

// WithPhase pins this field's FieldUpdate steps to phase.
func (fd *FieldDefinition) WithPhase(phase scheduler.Phase) *FieldDefinition {
	fd.phase, fd.hasPhase = phase, true
	return fd
}

// WithNextRound marks every FieldUpdate step produced for this field as
// requesting the queue's next round. The decision is made per step
// instance at the FieldUpdate layer; this flag only seeds it at
// construction time.
func (fd *FieldDefinition) WithNextRound() *FieldDefinition {
	fd.isNextRound = true
	return fd
}

// WithParent records the inheritance-hierarchy parent used by
// IsFieldRequired's most-specific-definition walk.
func (fd *FieldDefinition) WithParent(parent *FieldDefinition) *FieldDefinition {
	fd.parent = parent
	parent.children = append(parent.children, fd)
	return fd
}

// Input declares that fd's argument at position arg is fed by fromFD,
// reached by following relation from fd's owning object. Builds the paired
// OUTPUT-side link on fromFD automatically.
func (fd *FieldDefinition) Input(relation *Relation, fromFD *FieldDefinition, arg int) *FieldLinkDefinition {
	in, out := newLinkPair(fd, fromFD, relation, arg)
	fd.inputLinks[arg] = in
	fromFD.outputLinks = append(fromFD.outputLinks, out)
	return in
}

// Output declares that fd's committed value is consumed as argument arg of
// toFD, reached by following relation from fd's owning object. Builds the
// paired INPUT-side link on toFD automatically.
func (fd *FieldDefinition) Output(relation *Relation, toFD *FieldDefinition, arg int) *FieldLinkDefinition {
	in, out := newLinkPair(toFD, fd, relation, arg)
	toFD.inputLinks[arg] = in
	fd.outputLinks = append(fd.outputLinks, out)
	return out
}

// Transmit carries update across link into target. ProxyField forwards
// unconditionally to its target's Transmit; function field definitions
// (Multiplication etc.) compute an effective delta via transmitFn; the
// default behavior delegates to ReceiveUpdate.
func (fd *FieldDefinition) Transmit(target *Field, link *FieldLinkDefinition, update float64) error {
	if fd.isProxy {
		return fd.proxyTarget.Transmit(target, link, update)
	}
	if fd.transmitFn != nil {
		return fd.transmitFn(fd, target, link, update)
	}
	return fd.ReceiveUpdate(target, update)
}

// ReceiveUpdate forwards delta to field.receiveUpdate provided field's
// owning object is an instance of fd's declared object type. The tolerance
// gate lives on Field itself (consulting this same FieldDefinition), so
// the FieldDefinition-boundary and interceptor gates never disagree.
func (fd *FieldDefinition) ReceiveUpdate(field *Field, delta float64) error {
	if !field.Object().Type().IsInstanceOf(fd.objectType) {
		return nil
	}
	return field.receiveUpdate(delta)
}

// InitializeField seeds field's initial value. The default behavior
// follows the object's input-side flattened links and pulls each
// producer's current value in; leaf source functions (Exp, InputField, ...)
// override via initFn.
func (fd *FieldDefinition) InitializeField(field *Field) error {
	if fd.initFn != nil {
		return fd.initFn(fd, field)
	}
	obj := field.Object()
	for _, link := range fd.inputLinks {
		if link == nil {
			continue
		}
		for _, related := range obj.Follow(link.Relation()) {
			if err := Input.transmit(field, link, related, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsFieldRequired reports whether fd is the most-specific inherited-or-own
// definition for its name among a concrete type's field set, described by
// present (field id -> member of that set). Computed by descending from fd
// into its children and picking the deepest one present.
func (fd *FieldDefinition) IsFieldRequired(present map[int]bool) bool {
	return fd.deepestPresent(present) == fd
}

func (fd *FieldDefinition) deepestPresent(present map[int]bool) *FieldDefinition {
	var best *FieldDefinition
	if present[fd.id] {
		best = fd
	}
	for _, c := range fd.children {
		if d := c.deepestPresent(present); d != nil {
			best = d
		}
	}
	return best
}

// outputSlot resolves the slot this field definition occupies on obj's
// output-side flattened type, used by Direction when reading a producer's
// current value.
func (fd *FieldDefinition) outputSlot(obj Object) int {
	return obj.Type().FlattenedOutput().SlotFor(fd.id)
}
