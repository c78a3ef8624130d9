package network

// Side marks which neuron of a Synapse is the authoritative holder of that
// synapse for persistence, as declared by its type.
type Side int

const (
	StoredAtInput Side = iota
	StoredAtOutput
)

// SynapseType is the schema-level declaration of a synapse kind:
// it owns the Transition set threading binding signals across synapses of
// this type, whether latent (pair) linking applies, which binding-signal
// slot anchors pair linking (or -1 for "try every resident activation"),
// and which side persists the synapse.
type SynapseType struct {
	id   int64
	name string

	input  *NeuronType
	output *NeuronType

	transitions transitionSet

	allowLatentLinking    bool
	pairBindingSignalSlot int
	storedAt              Side

	// propagableDefault is the propagable bit new Synapses of this type
	// get unless overridden at creation.
	propagableDefault bool
}

// NewSynapseType declares a SynapseType connecting input -> output,
// carrying transitions. Latent (pair) linking and its anchor slot are
// configured afterward via WithLatentLinking, since only a minority of
// synapse types use it.
func NewSynapseType(id int64, name string, input, output *NeuronType, transitions []Transition, storedAt Side, propagable bool) *SynapseType {
	return &SynapseType{
		id:                    id,
		name:                  name,
		input:                 input,
		output:                output,
		transitions:           newTransitionSet(transitions),
		pairBindingSignalSlot: -1,
		storedAt:              storedAt,
		propagableDefault:     propagable,
	}
}

// WithLatentLinking marks st as eligible for paired (latent) linking,
// anchored at anchorSlot (a slot index in the OUTPUT side's
// binding-signal array, mapped back through the transitions to the
// firing input's slot) or -1 to fall back to scanning every resident
// activation of the paired synapse's input neuron.
func (st *SynapseType) WithLatentLinking(anchorSlot int) *SynapseType {
	st.allowLatentLinking = true
	st.pairBindingSignalSlot = anchorSlot
	return st
}

func (st *SynapseType) ID() int64               { return st.id }
func (st *SynapseType) Name() string            { return st.name }
func (st *SynapseType) InputType() *NeuronType  { return st.input }
func (st *SynapseType) OutputType() *NeuronType { return st.output }
func (st *SynapseType) AllowLatentLinking() bool { return st.allowLatentLinking }
func (st *SynapseType) StoredAt() Side           { return st.storedAt }

func (st *SynapseType) transitionForward(bs []*BindingSignal) []*BindingSignal {
	return st.transitions.transitionForward(bs, st.output.NumBSSlots())
}

func (st *SynapseType) transitionBackward(bs []*BindingSignal) []*BindingSignal {
	return st.transitions.transitionBackward(bs, st.input.NumBSSlots())
}

// mapTransitionBackward maps a slot expressed in the OUTPUT side's space
// back into the INPUT side's space, used by pairLinking to resolve
// pairBindingSignalSlot (declared in output space) against the firing
// activation's own (input-side) binding signals.
func (st *SynapseType) mapTransitionBackward(outputSlot int) (int, bool) {
	return st.transitions.backwardSlot(outputSlot)
}
