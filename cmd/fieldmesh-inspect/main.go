/*
=================================================================================
FIELDMESH-INSPECT - INTERACTIVE FIRING INSPECTOR
=================================================================================

A small bubbletea/lipgloss terminal program that builds a demonstration
schema (two Sensor neurons feeding one two-input Conjunctive neuron), seeds tokens into a
Context, drains its queue, and renders the resulting Activations as a
live-updating table. This is the module's only main package and the only
place bubbletea/lipgloss is exercised.
=================================================================================
*/
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fieldmesh/sparsenet/config"
	"github.com/fieldmesh/sparsenet/fields"
	"github.com/fieldmesh/sparsenet/network"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	firedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	frameStyle   = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder())
)

// demo wires up the schema shown by the inspector: two "Sensor" neurons
// feeding one "Combine" neuron across Conjunctive synapses that each
// forward the sensor's binding-signal slot 0 into one Combine slot (A into
// slot 0, B into slot 1).
type demo struct {
	model   *network.Model
	sensorA *network.Neuron
	sensorB *network.Neuron
	combine *network.Neuron
	ctx     *network.Context
}

func buildDemo() (*demo, error) {
	m := network.NewModel(config.Default())
	if err := m.Open(true); err != nil {
		return nil, err
	}

	reg := fields.NewRegistry()
	sensorType, err := m.NewNeuronType(reg, "Sensor", 1.0, 1, network.Conjunctive)
	if err != nil {
		return nil, err
	}
	combineType, err := m.NewNeuronType(reg, "Combine", 1.5, 2, network.Conjunctive)
	if err != nil {
		return nil, err
	}
	if err := reg.FlattenTypeHierarchy(); err != nil {
		return nil, err
	}

	sensorA := m.CreateNeuron(sensorType)
	sensorB := m.CreateNeuron(sensorType)
	combine := m.CreateNeuron(combineType)

	// The two sensor synapses are latent-paired: Combine only materializes
	// an activation once both sensors carry a compatible token, and their
	// pushed net values (1.0 each) then sum past Combine's 1.5 threshold
	// so the combiner genuinely fires.
	synA := network.NewSynapseType(1, "A-to-Combine", sensorType, combineType,
		[]network.Transition{{From: 0, To: 0}}, network.StoredAtOutput, true)
	synB := network.NewSynapseType(2, "B-to-Combine", sensorType, combineType,
		[]network.Transition{{From: 0, To: 1}}, network.StoredAtOutput, true)
	synA.WithLatentLinking(-1)
	synB.WithLatentLinking(-1)

	sA := m.NewSynapse(synA, sensorA, combine)
	sB := m.NewSynapse(synB, sensorB, combine)
	sA.PairWith(sB)

	ctx := m.NewContext()

	return &demo{model: m, sensorA: sensorA, sensorB: sensorB, combine: combine, ctx: ctx}, nil
}

// seed injects one token into each sensor, then drains the Context's
// queue so every reachable Activation fires and links.
func (d *demo) seed() error {
	if _, err := d.ctx.AddToken(d.sensorA, 0, 1001); err != nil {
		return err
	}
	if _, err := d.ctx.AddToken(d.sensorB, 0, 1001); err != nil {
		return err
	}
	return d.ctx.Process(nil)
}

type uiModel struct {
	d      *demo
	err    error
	seeded bool
}

func initialModel() uiModel {
	d, err := buildDemo()
	return uiModel{d: d, err: err}
}

func (m uiModel) Init() tea.Cmd { return nil }

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case " ", "enter":
			if !m.seeded && m.err == nil {
				m.err = m.d.seed()
				m.seeded = true
			}
		}
	}
	return m, nil
}

func (m uiModel) View() string {
	if m.err != nil {
		return frameStyle.Render(fmt.Sprintf("error: %v\n\npress q to quit", m.err))
	}

	var rows string
	rows += headerStyle.Render(fmt.Sprintf("%-10s %-6s %-8s %-6s", "neuron", "id", "fired", "net")) + "\n"
	for _, n := range []*network.Neuron{m.d.sensorA, m.d.sensorB, m.d.combine} {
		for _, a := range m.d.ctx.GetActivationsByNeuron(n) {
			row := fmt.Sprintf("%-10s %-6d %-8v %-6.2f", n.Type().Name(), a.ID(), a.HasFired(), a.Net())
			if a.HasFired() {
				rows += firedStyle.Render(row) + "\n"
			} else {
				rows += pendingStyle.Render(row) + "\n"
			}
		}
	}

	status := "press space/enter to seed tokens and process, q to quit"
	if m.seeded {
		status = "seeded and processed - press q to quit"
	}
	return frameStyle.Render(fmt.Sprintf("fieldmesh-inspect\n\n%s\n%s", rows, status))
}

func main() {
	if _, err := tea.NewProgram(initialModel()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "fieldmesh-inspect:", err)
		os.Exit(1)
	}
}
