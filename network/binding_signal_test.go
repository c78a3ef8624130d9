package network

import "testing"

// TestBindingSignalIndexIsPerNeuron: the inverted index answers per
// neuron, never leaking activations of other neurons carrying the same
// token.
func TestBindingSignalIndexIsPerNeuron(t *testing.T) {
	h := newVariantHarness(t, Conjunctive)
	b := h.ctx.getOrCreateBindingSignal(500)

	aIn := h.activation(h.in, 500)
	aOut := h.activation(h.out, 500)
	b.AddActivation(aIn)
	b.AddActivation(aOut)

	got := b.Activations(h.in)
	if len(got) != 1 || got[0] != aIn {
		t.Fatalf("Activations(in) = %v, want exactly the in-neuron activation", got)
	}
	if got := b.Activations(h.out); len(got) != 1 || got[0] != aOut {
		t.Fatalf("Activations(out) returned the wrong set")
	}
}

// TestBindingSignalSnapshotStableUnderInsertion: a snapshot taken before
// further AddActivation calls keeps its contents.
func TestBindingSignalSnapshotStableUnderInsertion(t *testing.T) {
	h := newVariantHarness(t, Conjunctive)
	b := h.ctx.getOrCreateBindingSignal(600)

	first := h.activation(h.in, 600)
	b.AddActivation(first)
	snapshot := b.Activations(h.in)

	second := h.activation(h.in, 600)
	b.AddActivation(second)

	if len(snapshot) != 1 || snapshot[0] != first {
		t.Fatalf("snapshot mutated by later insertion: %v", snapshot)
	}
	if got := b.Activations(h.in); len(got) != 2 {
		t.Fatalf("fresh query = %d activations, want 2", len(got))
	}
}

func TestBindingSignalAddActivationIsIdempotent(t *testing.T) {
	h := newVariantHarness(t, Conjunctive)
	b := h.ctx.getOrCreateBindingSignal(700)
	a := h.activation(h.in, 700)

	b.AddActivation(a)
	b.AddActivation(a)
	if got := b.Activations(h.in); len(got) != 1 {
		t.Fatalf("re-adding the same activation must not duplicate, got %d", len(got))
	}
}

// TestContextBindingSignalIsSingletonPerToken: one BindingSignal instance
// per token id per Context, so reference equality is a valid identity
// check during conflict detection.
func TestContextBindingSignalIsSingletonPerToken(t *testing.T) {
	h := newVariantHarness(t, Conjunctive)
	b1 := h.ctx.getOrCreateBindingSignal(42)
	b2 := h.ctx.getOrCreateBindingSignal(42)
	b3 := h.ctx.getOrCreateBindingSignal(43)

	if b1 != b2 {
		t.Fatalf("same token must return the same BindingSignal instance")
	}
	if b1 == b3 {
		t.Fatalf("distinct tokens must not share a BindingSignal")
	}
	other := h.model.NewContext()
	if other.getOrCreateBindingSignal(42) == b1 {
		t.Fatalf("BindingSignals must never be shared across Contexts")
	}
}
