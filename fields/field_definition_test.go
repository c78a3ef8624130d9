package fields

import "testing"

// TestLinkPairWiring: Input/Output declarations build both sides of the
// paired edge with mutual Opposite pointers, the declared relation and its
// reverse, and the argument position on the consuming side.
func TestLinkPairWiring(t *testing.T) {
	reg := NewRegistry()
	sourceType, _ := reg.NewType("Source")
	sinkType, _ := reg.NewType("Sink")
	srcFD := NewInputField(reg, sourceType, "src")
	sumFD := NewAddition(reg, sinkType, "sum", 2)
	rel, relRev := NewRelationPair(1, "R", RelationOne, 2, "R_REV", RelationOne)

	in := sumFD.Input(rel, srcFD, 1)

	if in.Direction() != LinkInput {
		t.Fatalf("consuming side direction = %v, want INPUT", in.Direction())
	}
	if in.ArgPos() != 1 {
		t.Fatalf("arg position = %d, want 1", in.ArgPos())
	}
	if in.OriginFD() != sumFD || in.RelatedFD() != srcFD {
		t.Fatalf("input link endpoints wrong")
	}

	out := in.Opposite()
	if out == nil || out.Opposite() != in {
		t.Fatalf("opposite pointers not mutual")
	}
	if out.Direction() != LinkOutput {
		t.Fatalf("producing side direction = %v, want OUTPUT", out.Direction())
	}
	if out.Relation() != relRev || in.Relation() != rel {
		t.Fatalf("relations not paired with the declared reverse")
	}

	// The arity invariant: after declaration, argument slot 1 is filled
	// and slot 0 still awaits its producer.
	if sumFD.InputLinks()[1] != in {
		t.Fatalf("input link not stored at its argument position")
	}
	if sumFD.InputLinks()[0] != nil {
		t.Fatalf("unfilled argument position should be nil")
	}
}

// TestIsFieldRequired walks the field-definition inheritance hierarchy:
// only the most-specific definition present in a concrete type's field set
// is "required"; shadowed ancestors are not.
func TestIsFieldRequired(t *testing.T) {
	reg := NewRegistry()
	typ, _ := reg.NewType("T")

	baseFD, _ := reg.NewField(typ, "f", 0)
	midFD, _ := reg.NewField(typ, "f", 0)
	leafFD, _ := reg.NewField(typ, "f", 0)
	midFD.WithParent(baseFD)
	leafFD.WithParent(midFD)

	present := map[int]bool{baseFD.ID(): true, midFD.ID(): true}

	if baseFD.IsFieldRequired(present) {
		t.Fatalf("base is shadowed by mid and must not be required")
	}
	if !midFD.IsFieldRequired(present) {
		t.Fatalf("mid is the deepest present definition and must be required")
	}
	if leafFD.IsFieldRequired(present) {
		t.Fatalf("leaf is absent from the set and must not be required")
	}

	// With the leaf present, requiredness moves down to it.
	present[leafFD.ID()] = true
	if midFD.IsFieldRequired(present) {
		t.Fatalf("mid is shadowed once leaf is present")
	}
	if !leafFD.IsFieldRequired(present) {
		t.Fatalf("leaf is now the deepest present definition")
	}
}

// TestSubtractionNegatesSecondArgument: arg1's deltas arrive negated,
// arg0's pass through unchanged.
func TestSubtractionNegatesSecondArgument(t *testing.T) {
	reg := NewRegistry()
	sourceType, _ := reg.NewType("Source")
	pairType, _ := reg.NewType("Pair")
	valueFD := NewInputField(reg, sourceType, "value")
	diffFD := NewSubtraction(reg, pairType, "diff")
	relA, _ := NewRelationPair(1, "ARG_A", RelationOne, 2, "ARG_A_REV", RelationOne)
	relB, _ := NewRelationPair(3, "ARG_B", RelationOne, 4, "ARG_B_REV", RelationOne)

	pair, srcA, srcB := wireBinaryFunction(diffFD, relA, relB, valueFD)
	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}

	if err := srcA.GetOrCreateFieldInput(valueFD).SetValue(10); err != nil {
		t.Fatalf("srcA SetValue: %v", err)
	}
	if err := srcB.GetOrCreateFieldInput(valueFD).SetValue(4); err != nil {
		t.Fatalf("srcB SetValue: %v", err)
	}
	if got := pair.GetOrCreateFieldInput(diffFD).Value(); got != 6 {
		t.Fatalf("diff = %v, want 6", got)
	}
}
