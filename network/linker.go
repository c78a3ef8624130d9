package network

import "sort"

// Linker implements the sparse discovery algorithm: outgoing propagation
// from a freshly fired Activation, paired (latent) linking for synapse
// types that require two coexisting inputs before materializing an
// output, and incoming completion once a new output Activation exists.
// One Linker is owned per Context; it holds no state of its own beyond
// the Context it operates on.
type Linker struct {
	ctx *Context
}

func newLinker(ctx *Context) *Linker { return &Linker{ctx: ctx} }

// linkOutgoing wakes the firing Activation's propagable neighborhood,
// then for every outgoing synapse either attempts paired (latent) linking
// or ordinary transition-forward discovery, propagating a fresh target
// Activation when nothing matches and the synapse allows it.
func (l *Linker) linkOutgoing(a *Activation) error {
	if err := a.neuron.wakeupPropagable(); err != nil {
		return err
	}

	for _, s := range a.neuron.OutputSynapses() {
		if s.Type.AllowLatentLinking() {
			if err := l.pairLinking(a, s); err != nil {
				return err
			}
			continue
		}

		outBS := s.Type.transitionForward(a.bindingSignals)
		if allNil(outBS) {
			continue
		}
		outputNeuron, err := s.OutputNeuron()
		if err != nil {
			return err
		}
		targets := l.collectLinkingTargets(outBS, outputNeuron)
		for _, t := range targets {
			if s.hasLink(a, t) {
				continue
			}
			if _, err := s.createLink(a, t); err != nil {
				return err
			}
		}
		if len(targets) == 0 && s.Propagable() {
			if err := l.propagate(a, s, outBS); err != nil {
				return err
			}
		}
	}
	return nil
}

// propagate materializes a new target Activation carrying outBS, links a
// to it, then fills in the rest of its inputs via linkIncoming.
func (l *Linker) propagate(a *Activation, s *Synapse, outBS []*BindingSignal) error {
	outputNeuron, err := s.OutputNeuron()
	if err != nil {
		return err
	}
	o := outputNeuron.createActivation(nil, a.ctx, outBS)
	l.ctx.registerActivation(o)
	if _, err := s.createLink(a, o); err != nil {
		return err
	}
	return l.linkIncoming(o, a)
}

// linkIncoming: for every input synapse of o's neuron, find candidate
// input Activations whose binding signals the synapse's backward
// transition says should connect to o, and link any that aren't already
// linked or excluded. A no-op for Disjunctive Activations, whose linking
// is driven entirely by outgoing passes from their inputs.
func (l *Linker) linkIncoming(o *Activation, excluded *Activation) error {
	if o.kind == Disjunctive {
		return nil
	}
	for _, s := range o.neuron.InputSynapses() {
		inBS := s.Type.transitionBackward(o.bindingSignals)
		if allNil(inBS) {
			continue
		}
		inputNeuron, err := s.InputNeuron()
		if err != nil {
			return err
		}
		for _, cand := range l.collectLinkingTargets(inBS, inputNeuron) {
			if cand == excluded {
				continue
			}
			if s.hasLink(cand, o) {
				continue
			}
			// o holds one input link per composite key; a candidate whose
			// key is already taken on o is skipped, not linked.
			if _, taken := o.inputLinks[o.inputKeyFor(&Link{Type: s.Type, Synapse: s, Input: cand, Output: o})]; taken {
				continue
			}
			if _, err := s.createLink(cand, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// pairLinking: find s1's output-side pairing partner s2, gather
// candidate a2 Activations on s2's input neuron (anchored at a specific
// binding-signal slot when s1's type names one, otherwise every resident
// Activation of that neuron), merge
// each candidate's forward-transitioned binding signals with a1's,
// reject conflicts, and find-or-create the output Activation before
// linking both a1 and a2 into it. This guarantees the output Activation
// is never materialized with a half-populated input set.
func (l *Linker) pairLinking(a1 *Activation, s1 *Synapse) error {
	s2 := s1.pairedOutputSide
	if s2 == nil {
		return nil
	}
	n2, err := s2.InputNeuron()
	if err != nil {
		return err
	}

	var candidates []*Activation
	if s1.Type.pairBindingSignalSlot >= 0 {
		inputSlot, ok := s1.Type.mapTransitionBackward(s1.Type.pairBindingSignalSlot)
		if !ok {
			return nil
		}
		b := a1.GetBindingSignal(inputSlot)
		if b == nil {
			return nil
		}
		candidates = b.Activations(n2)
	} else {
		candidates = l.ctx.activationsByNeuron(n2)
	}

	outputNeuron, err := s1.OutputNeuron()
	if err != nil {
		return err
	}

	for _, a2 := range candidates {
		if a2 == a1 {
			continue
		}
		bs1 := s1.Type.transitionForward(a1.bindingSignals)
		bs2 := s2.Type.transitionForward(a2.bindingSignals)
		outBS, ok := mergeBindingSignals(bs1, bs2)
		if !ok {
			continue
		}

		o, err := l.findOrCreateOutput(outputNeuron, outBS)
		if err != nil {
			return err
		}
		if !s1.hasLink(a1, o) {
			if _, err := s1.createLink(a1, o); err != nil {
				return err
			}
		}
		if !s2.hasLink(a2, o) {
			if _, err := s2.createLink(a2, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// findOrCreateOutput reuses an existing Activation of outputNeuron whose
// binding signals are conflict-free against outBS (two distinct paired
// synapses landing on the same slot with the same token must converge
// onto one Activation), creating a fresh one only when no candidate
// exists.
//
// Unlike ordinary (non-latent) linking, the sibling here is looked up
// through the Context's creation-time per-neuron index
// (activationsByNeuron), not collectLinkingTargets' BindingSignal-based
// index: a pair-created output Activation enters a BindingSignal's
// inverted index only once it fires, and its net commits (and may stay
// below threshold) only after the pushed contributions coalesce - so at
// the moment the second-side pairing runs, a fire-gated lookup would not
// find it, and every second-side pairing would materialize a duplicate
// output instead of converging onto the first.
func (l *Linker) findOrCreateOutput(outputNeuron *Neuron, outBS []*BindingSignal) (*Activation, error) {
	for _, cand := range l.ctx.activationsByNeuron(outputNeuron) {
		if matchesBindingSignals(cand, outBS) {
			return cand, nil
		}
	}
	o := outputNeuron.createActivation(nil, l.ctx, outBS)
	l.ctx.registerActivation(o)
	return o, nil
}

// collectLinkingTargets unions each non-nil binding signal's
// Activations(neuron), then rejects any candidate that conflicts with
// bsBySlot on a shared slot.
func (l *Linker) collectLinkingTargets(bsBySlot []*BindingSignal, neuron *Neuron) []*Activation {
	seen := make(map[int]*Activation)
	for _, b := range bsBySlot {
		if b == nil {
			continue
		}
		for _, cand := range b.Activations(neuron) {
			if !matchesBindingSignals(cand, bsBySlot) {
				continue
			}
			seen[cand.id] = cand
		}
	}
	out := make([]*Activation, 0, len(seen))
	for _, a := range seen {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// matchesBindingSignals: a candidate matches a desired per-slot vector
// iff, for every slot both sides define, the BindingSignal is identical.
// Reference equality is sufficient because BindingSignal is a
// Context-owned singleton per token id.
func matchesBindingSignals(cand *Activation, desired []*BindingSignal) bool {
	for slot, want := range desired {
		if want == nil {
			continue
		}
		if slot >= len(cand.bindingSignals) {
			continue
		}
		have := cand.bindingSignals[slot]
		if have == nil {
			continue
		}
		if have != want {
			return false
		}
	}
	return true
}

// mergeBindingSignals unions two per-slot binding-signal vectors,
// returning (nil, false) the moment a shared slot disagrees - the guard
// pairLinking relies on to keep conflicting tokens from ever producing an
// output Activation or a Link.
func mergeBindingSignals(a, b []*BindingSignal) ([]*BindingSignal, bool) {
	size := len(a)
	if len(b) > size {
		size = len(b)
	}
	out := make([]*BindingSignal, size)
	for i := 0; i < size; i++ {
		var av, bv *BindingSignal
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		switch {
		case av == nil:
			out[i] = bv
		case bv == nil:
			out[i] = av
		case av == bv:
			out[i] = av
		default:
			return nil, false
		}
	}
	return out, true
}

func allNil(bs []*BindingSignal) bool {
	for _, b := range bs {
		if b != nil {
			return false
		}
	}
	return true
}
