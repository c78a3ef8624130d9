package network

import "sort"

// BindingSignal is a symbolic label identified by a token id, scoped to exactly one Context, indexing which
// Activations already carry it. It is never shared across Contexts and is
// destroyed with its owning Context.
type BindingSignal struct {
	tokenID int64

	// byNeuron maps neuron id -> activation id -> Activation, an inverted
	// index so Activations(neuron) is O(size of the answer) rather than a
	// scan of every Activation in the Context.
	byNeuron map[int64]map[int]*Activation
}

func newBindingSignal(tokenID int64) *BindingSignal {
	return &BindingSignal{tokenID: tokenID, byNeuron: make(map[int64]map[int]*Activation)}
}

func (b *BindingSignal) TokenID() int64 { return b.tokenID }

// AddActivation indexes act under its neuron so future getActivations
// calls for that neuron find it. Idempotent: re-adding the same
// Activation is a no-op.
func (b *BindingSignal) AddActivation(act *Activation) {
	byAct, ok := b.byNeuron[act.neuron.id]
	if !ok {
		byAct = make(map[int]*Activation)
		b.byNeuron[act.neuron.id] = byAct
	}
	byAct[act.id] = act
}

// Activations returns every Activation of neuron currently carrying this
// binding signal, ordered by activation id. The returned slice is a
// snapshot; it stays valid even as further insertions happen, and the id
// order keeps linking decisions run-independent.
func (b *BindingSignal) Activations(neuron *Neuron) []*Activation {
	byAct, ok := b.byNeuron[neuron.id]
	if !ok {
		return nil
	}
	out := make([]*Activation, 0, len(byAct))
	for _, a := range byAct {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
