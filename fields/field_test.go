package fields

import (
	"testing"

	"github.com/fieldmesh/sparsenet/scheduler"
)

// toleranceFixture wires one Source "x" input field with an absolute
// tolerance into one Sink "y" Addition consuming it.
func toleranceFixture(t *testing.T, tol float64) (src, sink *testObject, xFD, yFD *FieldDefinition) {
	t.Helper()
	reg := NewRegistry()
	sourceType, _ := reg.NewType("Source")
	sinkType, _ := reg.NewType("Sink")
	xFD = NewInputField(reg, sourceType, "x").WithTolerance(tol)
	yFD = NewAddition(reg, sinkType, "y", 1)
	rel, _ := NewRelationPair(1, "FEEDS", RelationOne, 2, "FED_BY", RelationOne)
	yFD.Input(rel, xFD, 0)

	sink = newTestObject(sinkType)
	src = newTestObject(sourceType)
	linkTestObjects(sink, rel, src)

	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}
	return src, sink, xFD, yFD
}

// TestToleranceDropsSubthresholdUpdate is the literal tolerance scenario:
// x has tolerance 0.01, y sums x; setting x to 0.005 must leave y at 0.
func TestToleranceDropsSubthresholdUpdate(t *testing.T) {
	src, sink, xFD, yFD := toleranceFixture(t, 0.01)

	if err := src.GetOrCreateFieldInput(xFD).SetValue(0.005); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := sink.GetOrCreateFieldInput(yFD).Value(); got != 0 {
		t.Fatalf("y = %v, want 0 after tolerance-gated drop", got)
	}
	if got := src.GetOrCreateFieldInput(xFD).Value(); got != 0 {
		t.Fatalf("x = %v, want 0 after tolerance-gated drop", got)
	}
}

// TestToleranceIdempotence pins the tolerance-idempotence property: any
// sequence of updates each below tolerance is observationally identical to
// no updates at all - sub-threshold deltas do not accumulate.
func TestToleranceIdempotence(t *testing.T) {
	src, sink, xFD, yFD := toleranceFixture(t, 0.01)

	xField := src.GetOrCreateFieldInput(xFD)
	for i := 0; i < 100; i++ {
		if err := xField.SetValue(0.009); err != nil {
			t.Fatalf("SetValue: %v", err)
		}
	}
	if got := xField.Value(); got != 0 {
		t.Fatalf("x = %v, want 0 after repeated sub-tolerance updates", got)
	}
	if got := sink.GetOrCreateFieldInput(yFD).Value(); got != 0 {
		t.Fatalf("y = %v, want 0 after repeated sub-tolerance updates", got)
	}
}

// TestToleranceAdmitsThresholdUpdate: exactly-at-tolerance updates pass
// (the gate drops strictly-below-tolerance magnitudes only).
func TestToleranceAdmitsThresholdUpdate(t *testing.T) {
	src, sink, xFD, yFD := toleranceFixture(t, 0.01)

	if err := src.GetOrCreateFieldInput(xFD).SetValue(0.01); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := sink.GetOrCreateFieldInput(yFD).Value(); got != 0.01 {
		t.Fatalf("y = %v, want 0.01", got)
	}
}

// installTransmitCounter observes each propagation arriving at a sink field by
// wrapping the sink definition's transmit.
func installTransmitCounter(fd *FieldDefinition, count *int) {
	prev := fd.transmitFn
	fd.transmitFn = func(fd *FieldDefinition, target *Field, link *FieldLinkDefinition, update float64) error {
		*count++
		if prev != nil {
			return prev(fd, target, link, update)
		}
		return fd.ReceiveUpdate(target, update)
	}
}

// TestInterceptorCoalescesUpdates: with a queue-backed interceptor,
// repeated producer updates fold into a single FieldUpdate step, so the
// consumer sees exactly one propagation carrying the summed delta.
func TestInterceptorCoalescesUpdates(t *testing.T) {
	reg := NewRegistry()
	sourceType, _ := reg.NewType("Source")
	sinkType, _ := reg.NewType("Sink")
	xFD := NewInputField(reg, sourceType, "x")
	yFD := NewAddition(reg, sinkType, "y", 1)
	rel, _ := NewRelationPair(1, "FEEDS", RelationOne, 2, "FED_BY", RelationOne)
	yFD.Input(rel, xFD, 0)

	sink := newTestObject(sinkType)
	src := newTestObject(sourceType)
	linkTestObjects(sink, rel, src)
	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}

	// Allocate y before counting, so its one-time initialization pull is
	// not counted as a propagation.
	sink.GetOrCreateFieldInput(yFD)
	transmits := 0
	installTransmitCounter(yFD, &transmits)

	q := scheduler.New()
	xField := src.GetOrCreateFieldInput(xFD)
	xField.SetInterceptor(NewQueueInterceptor(q, xField))

	// Two raw deltas against the same uncommitted field: they must fold
	// into one pending step accumulating 3+5=8.
	if err := xField.receiveUpdate(3); err != nil {
		t.Fatalf("receiveUpdate: %v", err)
	}
	if err := xField.receiveUpdate(5); err != nil {
		t.Fatalf("receiveUpdate: %v", err)
	}
	if transmits != 0 {
		t.Fatalf("consumer saw %d propagations before Process, want 0", transmits)
	}
	if q.Len() != 1 {
		t.Fatalf("queue holds %d steps, want 1 coalesced FieldUpdate", q.Len())
	}

	if err := q.Process(nil); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if transmits != 1 {
		t.Fatalf("consumer saw %d propagations, want 1", transmits)
	}
	if got := xField.Value(); got != 8 {
		t.Fatalf("x = %v, want 8", got)
	}
	if got := sink.GetOrCreateFieldInput(yFD).Value(); got != 8 {
		t.Fatalf("y = %v, want 8", got)
	}
}

// TestNilQueueInterceptorBypassesScheduling: the bypass path processes an
// update inline the moment it arrives instead of queuing it.
func TestNilQueueInterceptorBypassesScheduling(t *testing.T) {
	reg := NewRegistry()
	sourceType, _ := reg.NewType("Source")
	xFD := NewInputField(reg, sourceType, "x")
	// x needs a consumer: a field with no links takes no slot.
	sinkType, _ := reg.NewType("Sink")
	yFD := NewAddition(reg, sinkType, "y", 1)
	rel, _ := NewRelationPair(1, "FEEDS", RelationOne, 2, "FED_BY", RelationOne)
	yFD.Input(rel, xFD, 0)
	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}

	src := newTestObject(sourceType)
	xField := src.GetOrCreateFieldInput(xFD)
	xField.SetInterceptor(NewQueueInterceptor(nil, xField))

	if err := xField.SetValue(4); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := xField.Value(); got != 4 {
		t.Fatalf("x = %v, want 4 immediately on the bypass path", got)
	}
}

// TestOnCommitRunsAfterValueCommit: the commit hook observes the already
// committed value, not the mid-flight one.
func TestOnCommitRunsAfterValueCommit(t *testing.T) {
	reg := NewRegistry()
	sourceType, _ := reg.NewType("Source")
	xFD := NewInputField(reg, sourceType, "x")
	// x needs a consumer: a field with no links takes no slot.
	sinkType, _ := reg.NewType("Sink")
	yFD := NewAddition(reg, sinkType, "y", 1)
	rel, _ := NewRelationPair(1, "FEEDS", RelationOne, 2, "FED_BY", RelationOne)
	yFD.Input(rel, xFD, 0)
	if err := reg.FlattenTypeHierarchy(); err != nil {
		t.Fatalf("FlattenTypeHierarchy: %v", err)
	}

	src := newTestObject(sourceType)
	xField := src.GetOrCreateFieldInput(xFD)

	var observed []float64
	xField.SetOnCommit(func(f *Field) error {
		observed = append(observed, f.Value())
		return nil
	})

	if err := xField.SetValue(2); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := xField.SetValue(5); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if len(observed) != 2 || observed[0] != 2 || observed[1] != 5 {
		t.Fatalf("onCommit observed %v, want [2 5]", observed)
	}
}
