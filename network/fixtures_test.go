package network

import (
	"github.com/fieldmesh/sparsenet/config"
	"github.com/fieldmesh/sparsenet/fields"
)

// testHarness wires a small two-sensor, one-combiner schema shared by this
// package's tests: Sensor neurons feed a Combine neuron across Conjunctive
// synapses, each forwarding a single binding-signal slot. Grounded in the
// same shape cmd/fieldmesh-inspect builds, factored out so tests don't each
// re-derive it.
type testHarness struct {
	model   *Model
	sensorA *Neuron
	sensorB *Neuron
	combine *Neuron
	synA    *SynapseType
	synB    *SynapseType
	ctx     *Context
}

func newTestHarness(threshold float64) (*testHarness, error) {
	m := NewModel(config.Default())
	reg := fields.NewRegistry()

	sensorType, err := m.NewNeuronType(reg, "Sensor", 0, 1, Conjunctive)
	if err != nil {
		return nil, err
	}
	combineType, err := m.NewNeuronType(reg, "Combine", threshold, 2, Conjunctive)
	if err != nil {
		return nil, err
	}
	if err := reg.FlattenTypeHierarchy(); err != nil {
		return nil, err
	}

	sensorA := m.CreateNeuron(sensorType)
	sensorB := m.CreateNeuron(sensorType)
	combine := m.CreateNeuron(combineType)

	synA := NewSynapseType(1, "A-to-Combine", sensorType, combineType,
		[]Transition{{From: 0, To: 0}}, StoredAtOutput, true)
	synB := NewSynapseType(2, "B-to-Combine", sensorType, combineType,
		[]Transition{{From: 0, To: 1}}, StoredAtOutput, true)

	m.NewSynapse(synA, sensorA, combine)
	m.NewSynapse(synB, sensorB, combine)

	return &testHarness{
		model:   m,
		sensorA: sensorA,
		sensorB: sensorB,
		combine: combine,
		synA:    synA,
		synB:    synB,
		ctx:     m.NewContext(),
	}, nil
}
