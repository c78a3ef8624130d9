package network

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fieldmesh/sparsenet/fields"
)

// ActivationKey is the composite input/output link key, kept a concrete,
// comparable, exported type (rather than folded anonymously into
// Activation) so the linker and its tests have a standalone key type to
// construct and compare.
type ActivationKey struct {
	SynapseID int64
	Tokens    string
}

func conjunctiveKey(synapseID int64, tokenIDs []int64) ActivationKey {
	parts := make([]string, len(tokenIDs))
	for i, t := range tokenIDs {
		parts[i] = strconv.FormatInt(t, 10)
	}
	return ActivationKey{SynapseID: synapseID, Tokens: strings.Join(parts, ",")}
}

func disjunctiveKey(upstreamActivationID int) ActivationKey {
	return ActivationKey{SynapseID: -1, Tokens: "act:" + strconv.Itoa(upstreamActivationID)}
}

func wildcardKey(tokenID int64) ActivationKey {
	return ActivationKey{SynapseID: -1, Tokens: "tok:" + strconv.FormatInt(tokenID, 10)}
}

// Activation is an instance of a Neuron within a Context. It embeds
// fields.BaseObject because each activation is a field-graph object:
// net-input arithmetic and firing-threshold crossing are expressed as
// ordinary field connections, not bespoke neuron code.
type Activation struct {
	fields.BaseObject

	id     int
	kind   ActivationKind
	parent *Activation
	neuron *Neuron
	ctx    *Context

	bindingSignals []*BindingSignal

	created int64
	fired   int64 // -1 until fired
	firedStep *Fired

	inputLinks  map[ActivationKey]*Link
	outputLinks map[ActivationKey]*Link
}

func newActivation(n *Neuron, ctx *Context, parent *Activation, bs []*BindingSignal) *Activation {
	a := &Activation{
		id:             ctx.nextActivationID(),
		kind:           n.typ.Kind(),
		parent:         parent,
		neuron:         n,
		ctx:            ctx,
		bindingSignals: bs,
		created:        ctx.currentTimestamp(),
		fired:          -1,
		inputLinks:     make(map[ActivationKey]*Link),
		outputLinks:    make(map[ActivationKey]*Link),
	}
	a.Init(a, n.typ.FieldsType())
	return a
}

func (a *Activation) ID() int          { return a.id }
func (a *Activation) Kind() ActivationKind { return a.kind }
func (a *Activation) Neuron() *Neuron  { return a.neuron }
func (a *Activation) Context() *Context { return a.ctx }
func (a *Activation) Parent() *Activation { return a.parent }
func (a *Activation) Created() int64   { return a.created }
func (a *Activation) Fired() int64     { return a.fired }
func (a *Activation) HasFired() bool   { return a.fired != -1 }

// GetBindingSignal returns the binding signal at slot, or nil if that slot
// is empty or out of range.
func (a *Activation) GetBindingSignal(slot int) *BindingSignal {
	if slot < 0 || slot >= len(a.bindingSignals) {
		return nil
	}
	return a.bindingSignals[slot]
}

// BindingSignals returns the full per-slot binding-signal vector. Callers
// must not mutate the returned slice.
func (a *Activation) BindingSignals() []*BindingSignal { return a.bindingSignals }

// InputLinks/OutputLinks return snapshots of a's composite-keyed link
// maps, used by the linker's hasLink check and by callers inspecting the
// resulting graph.
func (a *Activation) InputLinks() []*Link {
	out := make([]*Link, 0, len(a.inputLinks))
	for _, l := range a.inputLinks {
		out = append(out, l)
	}
	return out
}

func (a *Activation) OutputLinks() []*Link {
	out := make([]*Link, 0, len(a.outputLinks))
	for _, l := range a.outputLinks {
		out = append(out, l)
	}
	return out
}

// Follow implements fields.Object: Upstream walks to the input side of
// every input Link (the activations feeding this one's net field),
// Downstream walks to the output side of every output Link. Any other
// relation is a schema error this module never declares, so it returns
// nil.
func (a *Activation) Follow(rel *fields.Relation) []fields.Object {
	switch {
	case rel == upstream:
		out := make([]fields.Object, 0, len(a.inputLinks))
		for _, l := range a.inputLinks {
			out = append(out, l.Input)
		}
		return out
	case rel == downstream:
		out := make([]fields.Object, 0, len(a.outputLinks))
		for _, l := range a.outputLinks {
			out = append(out, l.Output)
		}
		return out
	case rel.IsSelf():
		return []fields.Object{a}
	default:
		return nil
	}
}

func (a *Activation) Key() string {
	return fmt.Sprintf("%s#%d", a.neuron.typ.Name(), a.id)
}

// GetOrCreateFieldInput overrides BaseObject's to install a QueueInterceptor
// bound to this Activation's Context queue, and an OnCommit hook driving
// Activation.updateFiredStep - the seam between the field graph and the
// activation network. Both installations are idempotent so repeated calls
// for an already-allocated field are harmless.
func (a *Activation) GetOrCreateFieldInput(fd *fields.FieldDefinition) *fields.Field {
	f := a.BaseObject.GetOrCreateFieldInput(fd)
	if f == nil {
		return nil
	}
	if f.Interceptor() == nil {
		f.SetInterceptor(fields.NewQueueInterceptor(a.ctx.queue, f))
	}
	if fd == a.neuron.typ.NetFD() {
		f.SetOnCommit(a.onNetCommit)
	}
	return f
}

// onNetCommit is the Net field's OnCommit hook: it forwards the freshly
// committed value to updateFiredStep, which schedules or resorts this
// Activation's Fired step once the value crosses threshold.
func (a *Activation) onNetCommit(f *fields.Field) error {
	return a.updateFiredStep(f)
}

// updateFiredStep: if a has already fired, or the net value is still
// below threshold, it is a silent no-op; otherwise the
// Fired step is created (first crossing) or re-enqueued with the new net
// value (so later, larger nets still sort earlier within PhaseFired).
func (a *Activation) updateFiredStep(netField *fields.Field) error {
	if a.fired != -1 {
		return nil
	}
	net := netField.Value()
	if net < a.neuron.typ.Threshold() {
		return nil
	}
	if a.firedStep == nil {
		a.firedStep = newFired(a, net)
		a.ctx.queue.AddStep(a.firedStep)
	} else {
		a.firedStep.setNet(net)
		a.ctx.queue.Resort(a.firedStep)
	}
	return nil
}

// seedNet drives an externally seeded activation's Net field, through the
// ordinary field-graph update path, to the neuron's firing threshold or
// one unit of input, whichever is larger. Used only by Context.AddToken:
// an exogenous token is an already-active signal, so its activation must
// cross threshold and schedule its Fired step exactly the way a computed
// net-input commit would - the update lands on the queue's interceptor,
// commits during the next Process drain, and updateFiredStep observes the
// commit through the Net field's onCommit hook.
func (a *Activation) seedNet() error {
	seed := a.neuron.typ.Threshold()
	if seed < 1 {
		seed = 1
	}
	return a.netField().SetValue(seed)
}

// netField returns the Net field, allocating it (and installing the
// interceptor/hook) on first access.
func (a *Activation) netField() *fields.Field {
	return a.GetOrCreateFieldInput(a.neuron.typ.NetFD())
}

// Net returns the last committed net-input value, 0 if the Net field was
// never touched.
func (a *Activation) Net() float64 { return a.committedNet() }

// committedNet reads the Net field's last committed value without
// allocating an interceptor-bound field for a target that might never
// otherwise need one.
func (a *Activation) committedNet() float64 {
	slot := a.neuron.typ.netOutputSlot()
	if f := a.FieldAt(slot); f != nil {
		return f.Value()
	}
	return 0
}

// pushNetValueTo forwards a's currently committed net value across a
// freshly created Link into o's Net field - the INPUT-side Direction
// policy (fetch the producer's current field value) applied to an edge
// that didn't exist when a last propagated. o's Net field is always
// allocated by createLink before the link is registered, so the zero
// check here is purely an optimization and never skips an allocation.
func (a *Activation) pushNetValueTo(o *Activation) error {
	contribution := a.committedNet()
	if contribution == 0 {
		return nil
	}
	target := o.netField()
	return target.SetValue(target.Value() + contribution)
}

// addInputLink registers l (where a is l.Output) under the composite key
// for a's ActivationKind, returning
// *errs.DuplicateLinkError if that key is already occupied.
func (a *Activation) addInputLink(l *Link) error {
	key := a.inputKeyFor(l)
	if _, exists := a.inputLinks[key]; exists {
		return duplicateLinkErr(l.Synapse.LocalID(), int64(l.Input.id), int64(l.Output.id))
	}
	a.inputLinks[key] = l
	return nil
}

// addOutputLink registers l (where a is l.Input) under a's output
// composite key.
func (a *Activation) addOutputLink(l *Link) error {
	key := a.outputKeyFor(l)
	if _, exists := a.outputLinks[key]; exists {
		return duplicateLinkErr(l.Synapse.LocalID(), int64(l.Input.id), int64(l.Output.id))
	}
	a.outputLinks[key] = l
	return nil
}

// inputKeyFor computes the composite key for l from a's (the consumer's)
// perspective, dispatching on a's ActivationKind.
func (a *Activation) inputKeyFor(l *Link) ActivationKey {
	switch a.kind {
	case Disjunctive:
		return disjunctiveKey(l.Input.id)
	case Inhibitory:
		return wildcardKey(l.wildcardToken())
	default: // Conjunctive
		toks := make([]int64, 0, len(l.Synapse.Type.transitions.list))
		for _, t := range l.Synapse.Type.transitions.list {
			tok := int64(-1)
			if bs := l.Input.GetBindingSignal(t.From); bs != nil {
				tok = bs.TokenID()
			}
			toks = append(toks, tok)
		}
		return conjunctiveKey(l.Synapse.LocalID(), toks)
	}
}

// outputKeyFor mirrors inputKeyFor from the producer's perspective,
// reading binding signals off the output side's transition slots. The
// Conjunctive key also carries the output Activation's id, so one producer
// can link into several output Activations that carry the same tokens.
func (a *Activation) outputKeyFor(l *Link) ActivationKey {
	switch a.kind {
	case Disjunctive:
		return disjunctiveKey(l.Output.id)
	case Inhibitory:
		return wildcardKey(l.wildcardToken())
	default:
		toks := make([]int64, 0, len(l.Synapse.Type.transitions.list))
		for _, t := range l.Synapse.Type.transitions.list {
			tok := int64(-1)
			if bs := l.Output.GetBindingSignal(t.To); bs != nil {
				tok = bs.TokenID()
			}
			toks = append(toks, tok)
		}
		key := conjunctiveKey(l.Synapse.LocalID(), toks)
		key.Tokens += "@" + strconv.Itoa(l.Output.id)
		return key
	}
}
