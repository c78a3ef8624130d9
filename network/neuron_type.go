package network

import "github.com/fieldmesh/sparsenet/fields"

// ActivationKind distinguishes the three activation variants (Conjunctive,
// Disjunctive, Inhibitory). They differ only in how input/output link keys
// are computed and how linkIncoming behaves, so ActivationKind is carried
// as a plain field on the shared Activation struct rather than three
// separate Go types.
type ActivationKind int

const (
	// Conjunctive activations key their input links by synapse id plus
	// the token ids named by the synapse's transitions - distinct copies
	// of the same synapse exist per binding-signal instantiation.
	Conjunctive ActivationKind = iota
	// Disjunctive activations key their input links by the upstream
	// activation's id; linkIncoming is a no-op for them (driven entirely
	// by the upstream side's outgoing linking).
	Disjunctive
	// Inhibitory activations key both input and output links by the
	// wildcard binding signal's token id.
	Inhibitory
)

func (k ActivationKind) String() string {
	switch k {
	case Conjunctive:
		return "Conjunctive"
	case Disjunctive:
		return "Disjunctive"
	case Inhibitory:
		return "Inhibitory"
	default:
		return "Unknown"
	}
}

// NeuronType is the schema-level declaration of a neuron kind: it owns
// the fields.Type presented by every Neuron of this type's Activations,
// the net-input FieldDefinition wired through
// the shared Upstream/Downstream relation pair, a firing threshold, the
// activation-key strategy (ActivationKind), and the number of
// binding-signal slots an Activation of this type carries.
//
// NeuronType doubles as the activation type: every Activation's schema is
// entirely determined by its Neuron's type, so a separate activation-type
// axis would have nothing to vary.
type NeuronType struct {
	id   int64
	name string

	fieldsType *fields.Type
	netFD      *fields.FieldDefinition

	threshold  float64
	numBSSlots int
	kind       ActivationKind
}

// NewNeuronType declares a NeuronType on reg: a fields.Type carrying one
// "Net" field (an Addition over the shared Upstream relation), a firing
// threshold, and numBSSlots binding-signal slots. Must be called before
// reg.FlattenTypeHierarchy.
func NewNeuronType(reg *fields.Registry, id int64, name string, threshold float64, numBSSlots int, kind ActivationKind) (*NeuronType, error) {
	ft, err := reg.NewType(name)
	if err != nil {
		return nil, err
	}
	ft.AddRelation(upstream)
	ft.AddRelation(downstream)

	net := fields.NewAddition(reg, ft, "Net", 1)
	net.Input(upstream, net, 0)

	return &NeuronType{
		id:         id,
		name:       name,
		fieldsType: ft,
		netFD:      net,
		threshold:  threshold,
		numBSSlots: numBSSlots,
		kind:       kind,
	}, nil
}

func (nt *NeuronType) ID() int64                     { return nt.id }
func (nt *NeuronType) Name() string                  { return nt.name }
func (nt *NeuronType) FieldsType() *fields.Type       { return nt.fieldsType }
func (nt *NeuronType) NetFD() *fields.FieldDefinition { return nt.netFD }
func (nt *NeuronType) Threshold() float64             { return nt.threshold }
func (nt *NeuronType) NumBSSlots() int                { return nt.numBSSlots }
func (nt *NeuronType) Kind() ActivationKind           { return nt.kind }

// netOutputSlot resolves the output-side slot of the Net field, used to
// read an Activation's currently committed net value when wiring a freshly
// created Link.
func (nt *NeuronType) netOutputSlot() int {
	return nt.fieldsType.FlattenedOutput().SlotFor(nt.netFD.ID())
}
