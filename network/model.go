/*
=================================================================================
MODEL - PROCESS-WIDE NEURON REGISTRY
=================================================================================

Model is the engine's process-wide shared state: it mints Neuron ids,
owns the neuron registry (backed by an InMemoryStore), and tracks the
Contexts opened against it. Guarded by two mutexes, one for the
document/context map and one for the neuron map, so contention on one
never blocks the other.
=================================================================================
*/
package network

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fieldmesh/sparsenet/config"
	"github.com/fieldmesh/sparsenet/fields"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Model owns everything shared across Contexts: the neuron registry, the
// Context ("document") map, and the engine configuration.
type Model struct {
	cfg *config.Config

	neuronMu     sync.RWMutex
	store        *InMemoryStore
	nextNeuronID int64

	docMu    sync.RWMutex
	contexts map[uuid.UUID]*Context

	opened bool
}

// NewModel returns a Model configured by cfg. A nil cfg uses config.Default().
func NewModel(cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Model{
		cfg:      cfg,
		store:    newInMemoryStore(),
		contexts: make(map[uuid.UUID]*Context),
	}
}

// Open marks the model ready for use. create is accepted for interface
// parity with persistence-backed model stores; this in-process model has no
// on-disk state to create or open, so both values behave identically.
func (m *Model) Open(create bool) error {
	m.opened = true
	return nil
}

func (m *Model) Config() *config.Config { return m.cfg }

// NewNeuronType declares a NeuronType against reg. Schema declaration is
// single-threaded, so this is a thin pass-through to
// network.NewNeuronType kept on Model only for call-site symmetry with
// CreateNeuron.
func (m *Model) NewNeuronType(reg *fields.Registry, name string, threshold float64, numBSSlots int, kind ActivationKind) (*NeuronType, error) {
	id := m.nextNeuronTypeID()
	return NewNeuronType(reg, id, name, threshold, numBSSlots, kind)
}

var neuronTypeIDs int64

func (m *Model) nextNeuronTypeID() int64 { return atomic.AddInt64(&neuronTypeIDs, 1) }

// CreateNeuron mints a fresh Neuron of typ and registers it in the store.
func (m *Model) CreateNeuron(typ *NeuronType) *Neuron {
	id := atomic.AddInt64(&m.nextNeuronID, 1) - 1
	n := newNeuron(m, id, typ)
	m.neuronMu.Lock()
	m.store.Put(n)
	m.neuronMu.Unlock()
	return n
}

// NewSynapse declares a Synapse of typ between input and output,
// registering it on both neurons.
func (m *Model) NewSynapse(typ *SynapseType, input, output *Neuron) *Synapse {
	return newSynapse(typ, input, output)
}

// Neuron resolves id through the store, returning *errs.MissingNeuronError
// if it is not resident.
func (m *Model) Neuron(id int64) (*Neuron, error) {
	m.neuronMu.RLock()
	defer m.neuronMu.RUnlock()
	return m.store.Get(id)
}

// NewContext opens a fresh Context against m, registering it under a
// minted UUID.
func (m *Model) NewContext() *Context {
	ctx := newContext(m)
	m.docMu.Lock()
	m.contexts[ctx.id] = ctx
	m.docMu.Unlock()
	return ctx
}

// Disconnect removes ctx from the Model's document map and tears the
// Context down.
func (m *Model) Disconnect(ctx *Context) {
	m.docMu.Lock()
	delete(m.contexts, ctx.id)
	m.docMu.Unlock()
	ctx.disconnect()
}

// ProcessAll drains every Context's queue concurrently via
// golang.org/x/sync/errgroup, stopping at the first error. Each Context
// remains single-threaded internally; the fan-out is across
// Contexts, which the Model - not any one Context - owns as shared state.
func (m *Model) ProcessAll(ctxs []*Context) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, c := range ctxs {
		c := c
		g.Go(func() error { return c.Process(nil) })
	}
	return g.Wait()
}

// Evict reclaims every Neuron with a zero reference count whose lastUsed
// is older than lowWaterMark minus the configured retention.
func (m *Model) Evict(lowWaterMark time.Time) []int64 {
	cutoff := lowWaterMark.Add(-time.Duration(m.cfg.NeuronProviderRetention) * 24 * time.Hour)

	var evicted []int64
	m.neuronMu.Lock()
	m.store.Range(func(n *Neuron) {
		n.mu.RLock()
		stale := n.lastUsed.Before(cutoff)
		n.mu.RUnlock()
		if stale && n.totalRefs() == 0 {
			evicted = append(evicted, n.id)
		}
	})
	for _, id := range evicted {
		m.store.Delete(id)
	}
	m.neuronMu.Unlock()
	return evicted
}
