/*
=================================================================================
CONTEXT - PER-INFERENCE-SESSION STATE
=================================================================================

Context is the per-inference-session owner of Activations, BindingSignals,
and the scheduler.Queue that drives them (a "document", in the Model's
bookkeeping). Unlike the Model, a Context is not shared - each one must be
driven from a single goroutine at a time, which Model.ProcessAll respects
by fanning out one errgroup goroutine per Context rather than
per-Activation.
=================================================================================
*/
package network

import (
	"sort"

	"github.com/fieldmesh/sparsenet/scheduler"
	"github.com/google/uuid"
)

// Context owns one inference session's Activations, BindingSignals, and
// Queue. It is not safe for concurrent use by more than one goroutine at a
// time; Model.ProcessAll's errgroup fans out across distinct
// Contexts, never within one.
type Context struct {
	id    uuid.UUID
	model *Model

	queue  *scheduler.Queue
	linker *Linker

	nextActID      int
	activations    map[int]*Activation
	byNeuron       map[int64][]*Activation
	bindingSignals map[int64]*BindingSignal

	disconnected bool
}

func newContext(m *Model) *Context {
	ctx := &Context{
		id:             uuid.New(),
		model:          m,
		queue:          scheduler.New(),
		activations:    make(map[int]*Activation),
		byNeuron:       make(map[int64][]*Activation),
		bindingSignals: make(map[int64]*BindingSignal),
	}
	ctx.queue.SetTimeout(m.cfg.Timeout)
	ctx.linker = newLinker(ctx)
	return ctx
}

// UUID returns the externally visible handle for this Context, minted
// once at creation. Never used as an internal map key or array index -
// hot-path indexing stays on the dense integer activation ids.
func (ctx *Context) UUID() uuid.UUID { return ctx.id }

func (ctx *Context) Model() *Model { return ctx.model }

func (ctx *Context) nextActivationID() int {
	id := ctx.nextActID
	ctx.nextActID++
	return id
}

// currentTimestamp returns the Queue's current round (CurrentRound), used
// to stamp Activation.created; it is not the Queue's per-step timestamp
// counter.
func (ctx *Context) currentTimestamp() int64 { return ctx.queue.CurrentRound() }

// registerActivation indexes a freshly created Activation by id and by its
// owning Neuron, for GetActivations, GetActivationsByNeuron and the
// Linker's by-neuron lookups. BindingSignal indexing happens separately,
// when the Activation fires (Fired.Process).
func (ctx *Context) registerActivation(a *Activation) {
	ctx.activations[a.id] = a
	nid := a.neuron.ID()
	ctx.byNeuron[nid] = append(ctx.byNeuron[nid], a)
}

// activationsByNeuron returns every Activation this Context has created for
// n, used by pairLinking's unanchored fallback.
func (ctx *Context) activationsByNeuron(n *Neuron) []*Activation {
	return ctx.byNeuron[n.ID()]
}

// getOrCreateBindingSignal returns the singleton BindingSignal for tokenID
// within this Context, minting one on first use.
func (ctx *Context) getOrCreateBindingSignal(tokenID int64) *BindingSignal {
	b, ok := ctx.bindingSignals[tokenID]
	if !ok {
		b = newBindingSignal(tokenID)
		ctx.bindingSignals[tokenID] = b
	}
	return b
}

// AddToken seeds neuron n with an exogenous token at binding-signal slot,
// creating an Activation that carries it and driving the activation's Net
// field - through the ordinary field-graph update path - to the neuron's
// firing threshold (or one unit of input, whichever is larger). The seed
// therefore crosses threshold and fires during the next Process drain the
// same way any computed net-input commit would, and its committed net is
// what createLink forwards to every downstream activation it links to.
//
// The binding-signal vector is sized to n's full declared slot width, not
// slot+1, and an out-of-range slot is silently ignored rather than
// panicking.
func (ctx *Context) AddToken(n *Neuron, slot int, tokenID int64) (*Activation, error) {
	bs := make([]*BindingSignal, n.typ.NumBSSlots())
	if slot >= 0 && slot < len(bs) {
		bs[slot] = ctx.getOrCreateBindingSignal(tokenID)
	}

	a := n.createActivation(nil, ctx, bs)
	ctx.registerActivation(a)
	if err := a.seedNet(); err != nil {
		return nil, err
	}
	return a, nil
}

// Process drains the Queue, honoring filter exactly as scheduler.Queue.Process
// does (a nil filter runs every queued Step).
func (ctx *Context) Process(filter scheduler.Filter) error {
	return ctx.queue.Process(filter)
}

// GetActivations returns every Activation this Context has ever created,
// ordered by activation id.
func (ctx *Context) GetActivations() []*Activation {
	out := make([]*Activation, 0, len(ctx.activations))
	for _, a := range ctx.activations {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// GetActivationsByNeuron returns every Activation of n created within this
// Context.
func (ctx *Context) GetActivationsByNeuron(n *Neuron) []*Activation {
	src := ctx.byNeuron[n.ID()]
	out := make([]*Activation, len(src))
	copy(out, src)
	return out
}

// disconnect tears this Context down: activations first, then binding
// signals, then the queue, so nothing can
// observe a binding signal or queue entry referencing an already-freed
// activation.
func (ctx *Context) disconnect() {
	ctx.disconnected = true
	ctx.activations = nil
	ctx.byNeuron = nil
	ctx.bindingSignals = nil
	ctx.queue = nil
}
