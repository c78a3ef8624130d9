package fields

import "testing"

// TestFlatteningStabilityAcrossHierarchy pins the flattening-stability
// property: a field inherited from a parent keeps the same slot index in
// the parent's and every descendant's flattened tables.
func TestFlatteningStabilityAcrossHierarchy(t *testing.T) {
	reg := NewRegistry()
	parent, _ := reg.NewType("Parent")
	child, _ := reg.NewType("Child", parent)
	grandchild, _ := reg.NewType("Grandchild", child)

	srcFD := NewInputField(reg, parent, "src")
	sumFD := NewAddition(reg, parent, "sum", 1)
	rel, _ := NewRelationPair(1, "R", RelationOne, 2, "R_REV", RelationOne)
	sumFD.Input(rel, srcFD, 0)

	// An extra child-only field must not disturb inherited slots.
	extraFD := NewAddition(reg, child, "extra", 1)
	extraFD.Input(rel, srcFD, 0)

	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}

	parentSlot := parent.FlattenedInput().SlotFor(sumFD.ID())
	if parentSlot < 0 {
		t.Fatalf("sum has no input slot on parent")
	}
	for _, typ := range []*Type{child, grandchild} {
		if got := typ.FlattenedInput().SlotFor(sumFD.ID()); got != parentSlot {
			t.Fatalf("%s slot for sum = %d, parent has %d", typ.Name(), got, parentSlot)
		}
	}
}

// TestOutputSideReusesSameNameInputSlot: a field present on both sides
// occupies one physical slot; an output-only field gets a fresh slot
// beyond the input range.
func TestOutputSideReusesSameNameInputSlot(t *testing.T) {
	reg := NewRegistry()
	typ, _ := reg.NewType("T")
	peer, _ := reg.NewType("Peer")

	rel, _ := NewRelationPair(1, "R", RelationOne, 2, "R_REV", RelationOne)

	// mid consumes src and feeds out: it has both input and output links,
	// so its input-side and output-side slots must coincide.
	srcFD := NewInputField(reg, typ, "src")
	midFD := NewAddition(reg, typ, "mid", 1)
	outFD := NewAddition(reg, peer, "out", 1)
	midFD.Input(rel, srcFD, 0)
	outFD.Input(rel, midFD, 0)

	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}

	in := typ.FlattenedInput()
	out := typ.FlattenedOutput()

	midIn := in.SlotFor(midFD.ID())
	midOut := out.SlotFor(midFD.ID())
	if midIn < 0 || midIn != midOut {
		t.Fatalf("mid slots input=%d output=%d, want equal and non-negative", midIn, midOut)
	}

	// src is output-only (numArgs 0): no input slot, fresh output slot at
	// or beyond the input range.
	if got := in.SlotFor(srcFD.ID()); got != -1 {
		t.Fatalf("src input slot = %d, want -1", got)
	}
	srcOut := out.SlotFor(srcFD.ID())
	if srcOut < in.NumberOfFields() {
		t.Fatalf("src output slot = %d, want >= input range %d", srcOut, in.NumberOfFields())
	}
}

// TestProxyFieldCollapsesOntoTargetSlot: a ProxyField shares its target's
// name, so the output side maps both onto one slot, and the proxy's
// Transmit delegates unconditionally to the target's.
func TestProxyFieldCollapsesOntoTargetSlot(t *testing.T) {
	reg := NewRegistry()
	base, _ := reg.NewType("Base")
	sub, _ := reg.NewType("Sub", base)
	peer, _ := reg.NewType("Peer")

	rel, _ := NewRelationPair(1, "R", RelationOne, 2, "R_REV", RelationOne)

	srcFD := NewInputField(reg, base, "src")
	valueFD := NewAddition(reg, base, "value", 1)
	valueFD.Input(rel, srcFD, 0)

	proxyFD, err := reg.NewProxyField(sub, "value", valueFD)
	if err != nil {
		t.Fatalf("NewProxyField: %v", err)
	}
	consumerFD := NewAddition(reg, peer, "consumer", 1)
	consumerFD.Input(rel, proxyFD, 0)

	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}

	// The proxy has no input links, so it never takes an input-side slot;
	// its target still does (proxy resolution pulls the target into the
	// collected set), and the proxy's same-named output-side entry
	// collapses onto that slot.
	proxySlot := sub.FlattenedOutput().SlotFor(proxyFD.ID())
	if proxySlot < 0 {
		t.Fatalf("proxy has no output slot on Sub")
	}
	if got := sub.FlattenedInput().SlotFor(proxyFD.ID()); got != -1 {
		t.Fatalf("proxy input slot = %d, want -1 (proxies never take input slots)", got)
	}
	targetSlot := sub.FlattenedInput().SlotFor(valueFD.ID())
	if targetSlot < 0 {
		t.Fatalf("proxy target lost its input slot on Sub")
	}
	if proxySlot != targetSlot {
		t.Fatalf("proxy output slot = %d, target input slot = %d, want collapsed onto one", proxySlot, targetSlot)
	}

	if !proxyFD.IsProxy() {
		t.Fatalf("expected proxy field to report IsProxy")
	}
	if len(proxyFD.InputLinks()) != 0 {
		t.Fatalf("proxy fields never have input links, got %d", len(proxyFD.InputLinks()))
	}
}
