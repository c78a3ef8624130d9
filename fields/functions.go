/*
=================================================================================
LEAF ARITHMETIC FIELD DEFINITIONS
=================================================================================

The engine proper treats Addition, Multiplication, and friends as external
collaborators - all it needs is their Transmit/InitializeField contract.
This file supplies minimal implementations of that contract so the rest of
the engine (and its tests and demo) has concrete field definitions to
build schemas from.

Linear functions (Addition, Subtraction, Summation, IdentityField) need no
InitFunc override: the default InitializeField walk additively composes
each input's pulled value, which is exactly correct for a linear function.
Nonlinear functions (Multiplication, Division, the activation function
family) override InitFunc to compute the true initial value directly
rather than accumulating it incrementally input-by-input.
=================================================================================
*/
package fields

import "math"

// argValue reads the current committed value of fd's producer at input
// position pos, following the declared relation from obj. Returns 0 if no
// related object or field exists yet.
func argValue(fd *FieldDefinition, obj Object, pos int) float64 {
	link := fd.inputLinks[pos]
	if link == nil {
		return 0
	}
	for _, related := range obj.Follow(link.Relation()) {
		if f := related.FieldAt(link.RelatedFD().outputSlot(related)); f != nil {
			return f.Value()
		}
	}
	return 0
}

// NewAddition declares a summation field definition over numArgs
// positional arguments;
// Transmit forwards each argument's delta through unchanged, since sums
// are linear in every argument.
func NewAddition(reg *Registry, objectType *Type, name string, numArgs int) *FieldDefinition {
	fd, _ := reg.NewField(objectType, name, numArgs)
	return fd
}

// NewSummation is an alias for NewAddition kept as its own constructor:
// Summation sums an enumerable "many" relation's members where Addition
// sums fixed positional arguments, but the Go implementation is identical
// since Field.propagateUpdate already sums whatever deltas arrive.
func NewSummation(reg *Registry, objectType *Type, name string, numArgs int) *FieldDefinition {
	return NewAddition(reg, objectType, name, numArgs)
}

// NewSubtraction declares a two-argument difference field definition:
// value = arg0 - arg1. Argument 1's deltas are negated in Transmit; still
// linear, so no InitFunc override is needed.
func NewSubtraction(reg *Registry, objectType *Type, name string) *FieldDefinition {
	fd, _ := reg.NewField(objectType, name, 2)
	fd.transmitFn = func(fd *FieldDefinition, target *Field, link *FieldLinkDefinition, update float64) error {
		if link.ArgPos() == 1 {
			update = -update
		}
		return fd.ReceiveUpdate(target, update)
	}
	return fd
}

// NewMultiplication declares a two-argument product field definition:
// value = arg0 * arg1. Transmit applies the product rule for an
// incremental update (delta on one argument scaled by the other
// argument's current value); InitializeField computes the true initial
// product directly since accumulating products input-by-input is not
// correct in general.
func NewMultiplication(reg *Registry, objectType *Type, name string) *FieldDefinition {
	fd, _ := reg.NewField(objectType, name, 2)
	fd.transmitFn = func(fd *FieldDefinition, target *Field, link *FieldLinkDefinition, update float64) error {
		other := argValue(fd, target.Object(), 1-link.ArgPos())
		return fd.ReceiveUpdate(target, update*other)
	}
	fd.initFn = func(fd *FieldDefinition, field *Field) error {
		v0 := argValue(fd, field.Object(), 0)
		v1 := argValue(fd, field.Object(), 1)
		return field.receiveUpdate(v0*v1 - field.Value())
	}
	return fd
}

// NewDivision declares a two-argument quotient field definition:
// value = arg0 / arg1. A zero divisor yields a zero value rather than
// propagating Inf/NaN through the graph.
func NewDivision(reg *Registry, objectType *Type, name string) *FieldDefinition {
	fd, _ := reg.NewField(objectType, name, 2)
	safeDiv := func(n, d float64) float64 {
		if d == 0 {
			return 0
		}
		return n / d
	}
	fd.transmitFn = func(fd *FieldDefinition, target *Field, link *FieldLinkDefinition, update float64) error {
		var effective float64
		if link.ArgPos() == 0 {
			denom := argValue(fd, target.Object(), 1)
			effective = safeDiv(update, denom)
		} else {
			num := argValue(fd, target.Object(), 0)
			denom := argValue(fd, target.Object(), 1)
			effective = safeDiv(-num*update, denom*denom)
		}
		return fd.ReceiveUpdate(target, effective)
	}
	fd.initFn = func(fd *FieldDefinition, field *Field) error {
		v0 := argValue(fd, field.Object(), 0)
		v1 := argValue(fd, field.Object(), 1)
		return field.receiveUpdate(safeDiv(v0, v1) - field.Value())
	}
	return fd
}

// NewExponential declares a single-argument exp() field definition:
// value = exp(arg0). Always recomputed fully from the producer's current
// value rather than incrementally, since exp is nonlinear.
func NewExponential(reg *Registry, objectType *Type, name string) *FieldDefinition {
	return NewActivationFunction(reg, objectType, name, math.Exp)
}

// NewActivationFunction declares a single-argument field definition whose
// value is sigma applied to its input's current committed value,
// recomputed fully on every producer update. This backs both a leaf
// "ActivationFunction" family field definition and, in the network
// package, a Neuron's firing nonlinearity applied to net input.
func NewActivationFunction(reg *Registry, objectType *Type, name string, sigma func(float64) float64) *FieldDefinition {
	fd, _ := reg.NewField(objectType, name, 1)
	// pending is mid-flight on the producer's own propagation: argValue
	// still reads its pre-commit value, so the producer's own delta must
	// be added back in to see what its value is about to become.
	fd.transmitFn = func(fd *FieldDefinition, target *Field, _ *FieldLinkDefinition, pending float64) error {
		v := argValue(fd, target.Object(), 0) + pending
		return target.receiveUpdate(sigma(v) - target.Value())
	}
	fd.initFn = func(fd *FieldDefinition, field *Field) error {
		v := argValue(fd, field.Object(), 0)
		return field.receiveUpdate(sigma(v) - field.Value())
	}
	return fd
}

// NewInputField declares a zero-argument source field definition: its
// value is set directly by external callers via Field.SetValue and never
// has input links or an InitializeField override (there is nothing to
// pull from).
func NewInputField(reg *Registry, objectType *Type, name string) *FieldDefinition {
	fd, _ := reg.NewField(objectType, name, 0)
	return fd
}

// NewIdentityField declares a single-argument pass-through field
// definition: value = arg0, unchanged. The default Transmit/InitializeField
// behavior already implements this (a lone linear argument summed via the
// default additive init), so no overrides are installed.
func NewIdentityField(reg *Registry, objectType *Type, name string) *FieldDefinition {
	fd, _ := reg.NewField(objectType, name, 1)
	return fd
}
