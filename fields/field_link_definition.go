package fields

// LinkDirection says which side of a paired FieldLinkDefinition this
// instance represents: INPUT on the consuming field definition, OUTPUT on
// the producing one. Distinct from the Direction interface used for
// traversal policy; LinkDirection is schema-time bookkeeping.
type LinkDirection int

const (
	LinkInput LinkDirection = iota
	LinkOutput
)

func (d LinkDirection) String() string {
	if d == LinkInput {
		return "INPUT"
	}
	return "OUTPUT"
}

// FieldLinkDefinition is a directed, paired edge of the field-graph schema
//: (originFD, relatedFD, relation, direction, optional
// argument position). Creating one side always creates its twin; each
// stores a pointer to the other via Opposite.
type FieldLinkDefinition struct {
	originFD  *FieldDefinition
	relatedFD *FieldDefinition
	relation  *Relation
	direction LinkDirection
	argPos    int // -1 when this field link carries no positional argument
	opposite  *FieldLinkDefinition
}

func (l *FieldLinkDefinition) OriginFD() *FieldDefinition  { return l.originFD }
func (l *FieldLinkDefinition) RelatedFD() *FieldDefinition { return l.relatedFD }
func (l *FieldLinkDefinition) Relation() *Relation         { return l.relation }
func (l *FieldLinkDefinition) Direction() LinkDirection    { return l.direction }
func (l *FieldLinkDefinition) ArgPos() int                 { return l.argPos }
func (l *FieldLinkDefinition) Opposite() *FieldLinkDefinition { return l.opposite }

// newLinkPair builds the INPUT-side link on consumerFD and its paired
// OUTPUT-side twin on producerFD, wiring each side's Opposite pointer.
// argPos is the positional slot on the consuming (INPUT-direction) side.
func newLinkPair(consumerFD, producerFD *FieldDefinition, rel *Relation, argPos int) (inLink, outLink *FieldLinkDefinition) {
	inLink = &FieldLinkDefinition{
		originFD:  consumerFD,
		relatedFD: producerFD,
		relation:  rel,
		direction: LinkInput,
		argPos:    argPos,
	}
	outLink = &FieldLinkDefinition{
		originFD:  producerFD,
		relatedFD: consumerFD,
		relation:  rel.Reverse(),
		direction: LinkOutput,
		argPos:    argPos,
	}
	inLink.opposite = outLink
	outLink.opposite = inLink
	return inLink, outLink
}
