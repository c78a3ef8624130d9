package network

import (
	"sort"
	"sync"
	"time"
)

// RefType distinguishes what is pinning a Neuron resident. A Neuron may
// only be evicted once every RefType's count has dropped to zero.
type RefType int

const (
	RefInputSynapse RefType = iota
	RefOutputSynapse
	RefContext
)

// Neuron is the runtime, schema-bound actor of the activation network: a
// stable id minted by the Model, an input/output synapse set guarded by a
// per-neuron read/write lock, a propagable set of downstream neuron ids,
// and reference counts driving eviction.
type Neuron struct {
	mu sync.RWMutex

	id    int64
	typ   *NeuronType
	model *Model

	inputSynapses  map[int64]*Synapse // keyed by local synapse id
	outputSynapses map[int64]*Synapse // keyed by output neuron id
	propagable     map[int64]bool

	nextSynapseID int64
	refCounts     map[RefType]int
	lastUsed      time.Time
	modified      bool
}

func newNeuron(model *Model, id int64, typ *NeuronType) *Neuron {
	return &Neuron{
		id:             id,
		typ:            typ,
		model:          model,
		inputSynapses:  make(map[int64]*Synapse),
		outputSynapses: make(map[int64]*Synapse),
		propagable:     make(map[int64]bool),
		refCounts:      make(map[RefType]int),
		lastUsed:       time.Now(),
	}
}

func (n *Neuron) ID() int64        { return n.id }
func (n *Neuron) Type() *NeuronType { return n.typ }

// Reference returns a weak NeuronReference resolvable through the Model.
func (n *Neuron) Reference() NeuronReference { return NeuronReference{id: n.id, model: n.model} }

// touch records that n was used just now, refreshing the eviction
// low-water-mark comparison Model.Evict performs.
func (n *Neuron) touch() {
	n.mu.Lock()
	n.lastUsed = time.Now()
	n.modified = true
	n.mu.Unlock()
}

// IncRef/DecRef adjust n's per-RefType pin count. A Neuron is only
// eligible for eviction once every count is zero.
func (n *Neuron) IncRef(rt RefType) {
	n.mu.Lock()
	n.refCounts[rt]++
	n.mu.Unlock()
}

func (n *Neuron) DecRef(rt RefType) {
	n.mu.Lock()
	if n.refCounts[rt] > 0 {
		n.refCounts[rt]--
	}
	n.mu.Unlock()
}

func (n *Neuron) totalRefs() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	total := 0
	for _, c := range n.refCounts {
		total += c
	}
	return total
}

// addInputSynapse registers s under its local id, exclusive against
// concurrent readers.
func (n *Neuron) addInputSynapse(s *Synapse) {
	n.mu.Lock()
	n.inputSynapses[s.localID] = s
	n.mu.Unlock()
	n.touch()
}

// addOutputSynapse registers s keyed by the id of its output neuron.
func (n *Neuron) addOutputSynapse(s *Synapse) {
	n.mu.Lock()
	n.outputSynapses[s.outputNeuronID()] = s
	n.mu.Unlock()
	n.touch()
}

// InputSynapses returns a snapshot slice of n's input synapses, safe to
// range over without holding n's lock. Ordered by local synapse id so the
// linker visits synapses in a run-independent order.
func (n *Neuron) InputSynapses() []*Synapse {
	n.mu.RLock()
	out := make([]*Synapse, 0, len(n.inputSynapses))
	for _, s := range n.inputSynapses {
		out = append(out, s)
	}
	n.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].localID < out[j].localID })
	return out
}

// OutputSynapses returns a snapshot slice of n's output synapses, ordered
// by output neuron id for the same determinism reason as InputSynapses.
func (n *Neuron) OutputSynapses() []*Synapse {
	n.mu.RLock()
	out := make([]*Synapse, 0, len(n.outputSynapses))
	for _, s := range n.outputSynapses {
		out = append(out, s)
	}
	n.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].outputNeuronID() < out[j].outputNeuronID() })
	return out
}

// SetPropagable marks downstream neuron id as one this neuron's
// activations should propagate to by default when no existing target
// matches.
func (n *Neuron) SetPropagable(downstreamNeuronID int64, propagable bool) {
	n.mu.Lock()
	if propagable {
		n.propagable[downstreamNeuronID] = true
	} else {
		delete(n.propagable, downstreamNeuronID)
	}
	n.mu.Unlock()
}

// wakeupPropagable ensures every neuron in n's propagable set is resident
// in the Model before outgoing linking runs. This module's
// InMemoryStore never actually evicts transparently, so "ensure resident"
// degrades to a lookup that would surface errs.MissingNeuronError for a
// genuinely absent id; a real persistence-backed store would rehydrate
// here instead.
func (n *Neuron) wakeupPropagable() error {
	n.mu.RLock()
	ids := make([]int64, 0, len(n.propagable))
	for id := range n.propagable {
		ids = append(ids, id)
	}
	n.mu.RUnlock()

	for _, id := range ids {
		if _, err := n.model.Neuron(id); err != nil {
			return err
		}
	}
	return nil
}

func (n *Neuron) nextLocalSynapseID() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextSynapseID
	n.nextSynapseID++
	return id
}

// createActivation returns a freshly id'd Activation on n, attached to
// ctx, with created set to ctx's current timestamp.
func (n *Neuron) createActivation(parent *Activation, ctx *Context, bs []*BindingSignal) *Activation {
	n.touch()
	return newActivation(n, ctx, parent, bs)
}
