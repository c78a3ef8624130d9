package network

import (
	"encoding/json"
	"io"

	"github.com/fieldmesh/sparsenet/errs"
)

// NeuronWire is the temp structure for an encoded Neuron: the stable id,
// the neuron type id, the synapse-id counter, the synapses this neuron is
// the authoritative holder of, and the propagable set. Activations never
// appear here - they are Context-scoped runtime state, not part of the
// neuron graph.
type NeuronWire struct {
	ID            int64
	TypeID        int64
	NextSynapseID int64
	Synapses      []SynapseWire
	Propagable    []int64
}

// SynapseWire is the temp structure for one encoded Synapse.
type SynapseWire struct {
	TypeID     int64
	LocalID    int64
	Input      int64
	Output     int64
	Propagable bool
}

// wireState snapshots n into its NeuronWire form. Only synapses stored at
// n's side (per their SynapseType's StoredAt declaration) are included:
// the stored-at side is the authoritative holder for persistence, so a
// synapse is written exactly once across the whole neuron graph.
func (n *Neuron) wireState() *NeuronWire {
	n.mu.RLock()
	defer n.mu.RUnlock()

	w := &NeuronWire{
		ID:            n.id,
		TypeID:        n.typ.ID(),
		NextSynapseID: n.nextSynapseID,
	}
	for _, s := range n.inputSynapses {
		if s.Type.StoredAt() == StoredAtOutput {
			w.Synapses = append(w.Synapses, synapseWire(s))
		}
	}
	for _, s := range n.outputSynapses {
		if s.Type.StoredAt() == StoredAtInput {
			w.Synapses = append(w.Synapses, synapseWire(s))
		}
	}
	for id := range n.propagable {
		w.Propagable = append(w.Propagable, id)
	}
	return w
}

func synapseWire(s *Synapse) SynapseWire {
	return SynapseWire{
		TypeID:     s.Type.ID(),
		LocalID:    s.localID,
		Input:      s.input.ID(),
		Output:     s.output.ID(),
		Propagable: s.propagable,
	}
}

// WriteWireState encodes n onto w as JSON, returning
// *errs.NeuronSerializationError on an encoder failure.
func (n *Neuron) WriteWireState(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(n.wireState()); err != nil {
		return &errs.NeuronSerializationError{NeuronID: n.id, Cause: err}
	}
	return nil
}

// ReadWireState decodes one NeuronWire from r. A clean EOF before any
// content returns (nil, nil); a malformed document returns
// *errs.NeuronSerializationError.
func ReadWireState(r io.Reader) (*NeuronWire, error) {
	w := &NeuronWire{}
	err := json.NewDecoder(r).Decode(w)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &errs.NeuronSerializationError{NeuronID: w.ID, Cause: err}
	}
	return w, nil
}

// RestoreNeuron rebuilds a Neuron from its wire state into m. The neuron
// types and synapse types of the original schema must be supplied by id;
// synapse endpoints are resolved through m's store, so the far neuron of
// every encoded synapse must already be resident (restore neurons in two
// passes: all neurons first via a nil synTypes map, then synapses).
func (m *Model) RestoreNeuron(w *NeuronWire, typ *NeuronType, synTypes map[int64]*SynapseType) (*Neuron, error) {
	n, err := m.Neuron(w.ID)
	if err != nil {
		n = newNeuron(m, w.ID, typ)
		m.neuronMu.Lock()
		m.store.Put(n)
		if w.ID >= m.nextNeuronID {
			m.nextNeuronID = w.ID + 1
		}
		m.neuronMu.Unlock()
	}

	n.mu.Lock()
	if w.NextSynapseID > n.nextSynapseID {
		n.nextSynapseID = w.NextSynapseID
	}
	for _, id := range w.Propagable {
		n.propagable[id] = true
	}
	n.mu.Unlock()

	for _, sw := range w.Synapses {
		st, ok := synTypes[sw.TypeID]
		if !ok {
			continue
		}
		input, err := m.Neuron(sw.Input)
		if err != nil {
			return nil, err
		}
		output, err := m.Neuron(sw.Output)
		if err != nil {
			return nil, err
		}
		if hasRestoredSynapse(output, sw.LocalID) {
			continue
		}
		s := &Synapse{
			Type:       st,
			localID:    sw.LocalID,
			input:      input.Reference(),
			output:     output.Reference(),
			propagable: sw.Propagable,
		}
		input.addOutputSynapse(s)
		output.addInputSynapse(s)
		input.IncRef(RefOutputSynapse)
		output.IncRef(RefInputSynapse)
	}
	return n, nil
}

func hasRestoredSynapse(output *Neuron, localID int64) bool {
	output.mu.RLock()
	defer output.mu.RUnlock()
	_, ok := output.inputSynapses[localID]
	return ok
}
