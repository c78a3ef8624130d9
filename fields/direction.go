package fields

// Direction marks which side of a FieldLinkDefinition is being traversed:
// OUTPUT when a producer's committed update is pushed to a consumer, INPUT
// when a freshly constructed Object pulls its initial value from a
// producer. A small interface rather than a bare enum switched on ad hoc,
// so FieldLinkDefinition and Object code can stay direction-generic.
type Direction interface {
	// Invert returns the opposite Direction.
	Invert() Direction
	// transmit carries field's committed update or current value across
	// link to the related Object, following this Direction's policy.
	transmit(field *Field, link *FieldLinkDefinition, related Object, update float64) error
	String() string
}

type inputDirection struct{}
type outputDirection struct{}

// Input is the Direction used when a newly constructed Object pulls its
// initial field values from already-populated producers (Field.initializeField).
var Input Direction = inputDirection{}

// Output is the Direction used when a producer's update propagates forward
// to its consumers (Field.propagateUpdate).
var Output Direction = outputDirection{}

func (inputDirection) Invert() Direction  { return Output }
func (outputDirection) Invert() Direction { return Input }
func (inputDirection) String() string     { return "INPUT" }
func (outputDirection) String() string    { return "OUTPUT" }

// transmit implements the INPUT-side policy: fetch the producer's current
// value and hand it to the consuming field definition's Transmit (the
// FieldDefinition that owns link), using the opposite (OUTPUT-side) link so
// the delta travels through the pair the way it was declared.
func (inputDirection) transmit(field *Field, link *FieldLinkDefinition, related Object, _ float64) error {
	producerField := related.FieldAt(link.RelatedFD().outputSlot(related))
	if producerField == nil {
		return nil
	}
	return link.OriginFD().Transmit(field, link.Opposite(), producerField.Value())
}

// transmit implements the OUTPUT-side policy: fetch or create the
// consumer's input field and hand the origin's update to the related field
// definition's Transmit, through the opposite (INPUT-side) link.
func (outputDirection) transmit(field *Field, link *FieldLinkDefinition, related Object, update float64) error {
	consumerField := related.GetOrCreateFieldInput(link.RelatedFD())
	return link.RelatedFD().Transmit(consumerField, link.Opposite(), update)
}
