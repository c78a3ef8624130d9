package network

import "github.com/fieldmesh/sparsenet/errs"

// NeuronReference is a weak reference to a Neuron, resolved on demand
// through the owning Model rather than held as a direct pointer, so a
// Synapse never keeps an evicted Neuron artificially resident.
type NeuronReference struct {
	id    int64
	model *Model
}

// Resolve looks the referenced Neuron up in the Model, returning
// *errs.MissingNeuronError if it is not currently resident.
func (r NeuronReference) Resolve() (*Neuron, error) { return r.model.Neuron(r.id) }

func (r NeuronReference) ID() int64 { return r.id }

// Synapse is the runtime edge of the neuron graph: a SynapseType, a local
// synapse id unique within its output neuron, weak references to its two
// neurons, a propagable bit, and two paired-synapse pointers used by
// latent (pair) linking.
type Synapse struct {
	Type *SynapseType

	localID int64
	input   NeuronReference
	output  NeuronReference

	propagable bool

	pairedInputSide  *Synapse
	pairedOutputSide *Synapse
}

// newSynapse wires s between input and output, registering it on both
// neurons and minting a local id unique within the output neuron.
func newSynapse(typ *SynapseType, input, output *Neuron) *Synapse {
	s := &Synapse{
		Type:       typ,
		localID:    output.nextLocalSynapseID(),
		input:      input.Reference(),
		output:     output.Reference(),
		propagable: typ.propagableDefault,
	}
	input.addOutputSynapse(s)
	output.addInputSynapse(s)
	input.IncRef(RefOutputSynapse)
	output.IncRef(RefInputSynapse)
	return s
}

func (s *Synapse) LocalID() int64 { return s.localID }

func (s *Synapse) InputNeuron() (*Neuron, error)  { return s.input.Resolve() }
func (s *Synapse) OutputNeuron() (*Neuron, error) { return s.output.Resolve() }

func (s *Synapse) outputNeuronID() int64 { return s.output.ID() }

// Propagable reports whether this Synapse may materialize a new target
// activation when collectLinkingTargets finds none.
func (s *Synapse) Propagable() bool { return s.propagable }

func (s *Synapse) SetPropagable(p bool) { s.propagable = p }

// PairWith links s and other as each other's paired-synapse-on-the-output-
// side counterparts (the pairing pairLinking traverses). Both synapses
// must share the same output neuron type for the pairing to produce a
// coherent output activation.
func (s *Synapse) PairWith(other *Synapse) {
	s.pairedOutputSide = other
	other.pairedOutputSide = s
}

// PairInputSideWith records the pairing anchored at the two synapses'
// shared input neuron. Distinct from PairWith: a synapse can carry one
// pairing at each of its ends.
func (s *Synapse) PairInputSideWith(other *Synapse) {
	s.pairedInputSide = other
	other.pairedInputSide = s
}

// PairedOutputSide returns the synapse whose input activations this one
// pairs with when materializing a shared output, nil when unpaired.
func (s *Synapse) PairedOutputSide() *Synapse { return s.pairedOutputSide }

// PairedInputSide returns the pairing anchored at the input neuron, nil
// when unpaired.
func (s *Synapse) PairedInputSide() *Synapse { return s.pairedInputSide }

// hasLink reports whether a link already exists from input activation i
// to output activation o across s.
func (s *Synapse) hasLink(i, o *Activation) bool {
	for _, l := range o.InputLinks() {
		if l.Synapse == s && l.Input == i {
			return true
		}
	}
	return false
}

// createLink materializes a Link between i (input side) and o (output
// side) across s, registers it on both activations' composite-keyed link
// maps, and wires the producer's currently committed net value across the
// freshly formed field-graph edge.
//
// o's Net field is allocated BEFORE the link is registered: first-time
// field allocation runs the definition's initialization walk over every
// upstream link already visible on o, and a link both walked at init time
// and pushed by pushNetValueTo below would contribute twice. Allocating
// first means the init walk never sees this link, so the push is the
// link's single contribution.
func (s *Synapse) createLink(i, o *Activation) (*Link, error) {
	o.netField()
	l := &Link{Type: s.Type, Synapse: s, Input: i, Output: o}
	if err := o.addInputLink(l); err != nil {
		return nil, err
	}
	if err := i.addOutputLink(l); err != nil {
		return nil, err
	}
	if err := i.pushNetValueTo(o); err != nil {
		return nil, err
	}
	return l, nil
}

// duplicateLinkErr builds the DuplicateLinkError for a
// synapse/input/output triple that already has a Link.
func duplicateLinkErr(synapseID, inputID, outputID int64) error {
	return &errs.DuplicateLinkError{
		SynapseID: int(synapseID),
		InputID:   int(inputID),
		OutputID:  int(outputID),
	}
}
