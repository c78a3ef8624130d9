package scheduler

// Phase is a scheduling category ordering Steps within a Round. Ranks are
// assigned so the zero value sorts first and later processing stages sort
// later.
type Phase int

const (
	// PhaseInference carries ordinary FieldUpdate steps: arithmetic
	// propagation through the field graph.
	PhaseInference Phase = iota
	// PhaseFired carries Fired steps: net-input threshold crossings.
	PhaseFired
	// PhaseInstantiation carries steps that materialize new Activations or
	// Links discovered by the Linker.
	PhaseInstantiation
	// PhaseTraining carries weight-update steps. No component in this
	// module schedules on this phase (training lives with the embedding
	// trainer); it exists so the external phase enumeration is complete.
	PhaseTraining
	// PhaseInactiveLinks is a delayed phase: pruning sweeps for links that
	// never fired within a retention window.
	PhaseInactiveLinks
	// PhaseSave is a delayed phase: persistence flush steps.
	PhaseSave
)

// delayedPhases defer to MaxRound regardless of the round requested by the
// step, so they always sort after every non-delayed step already queued.
var delayedPhases = map[Phase]bool{
	PhaseInactiveLinks: true,
	PhaseSave:          true,
}

// IsDelayed reports whether steps on this phase are pinned to MaxRound.
func (p Phase) IsDelayed() bool { return delayedPhases[p] }

// Rank returns the phase's ordering rank. Phase is already declared in
// ascending processing order, so Rank is the identity, kept as a named
// method so call sites read as "phase rank" rather than relying on the
// underlying int.
func (p Phase) Rank() int { return int(p) }

func (p Phase) String() string {
	switch p {
	case PhaseInference:
		return "Inference"
	case PhaseFired:
		return "Fired"
	case PhaseInstantiation:
		return "Instantiation"
	case PhaseTraining:
		return "Training"
	case PhaseInactiveLinks:
		return "InactiveLinks"
	case PhaseSave:
		return "Save"
	default:
		return "Unknown"
	}
}
