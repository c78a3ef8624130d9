package fields

// RelationKind distinguishes the three relation variants: a "one" relation follows to a single related object, "many" enumerates
// related objects, and "self" always returns the object it is called on.
type RelationKind int

const (
	RelationOne RelationKind = iota
	RelationMany
	RelationSelf
)

func (k RelationKind) String() string {
	switch k {
	case RelationOne:
		return "ONE"
	case RelationMany:
		return "MANY"
	case RelationSelf:
		return "SELF"
	default:
		return "UNKNOWN"
	}
}

// Relation is a labeled directed edge between types. Every relation has a
// paired reverse pointer established at construction time;
// SELF relations are their own reverse. Relations carry no Go-level
// traversal logic themselves - following one is delegated to the concrete
// Object implementation via Object.Follow; exposing relations is a
// Type/Object responsibility, not Relation's.
type Relation struct {
	id      int
	name    string
	kind    RelationKind
	reverse *Relation
}

// NewSelfRelation returns a RelationSelf relation that is its own reverse.
func NewSelfRelation(id int, name string) *Relation {
	r := &Relation{id: id, name: name, kind: RelationSelf}
	r.reverse = r
	return r
}

// NewRelationPair builds two relations that are each other's reverse, one
// in each direction, e.g. ("owner", RelationOne) paired with ("owned",
// RelationMany).
func NewRelationPair(fwdID int, fwdName string, fwdKind RelationKind, bwdID int, bwdName string, bwdKind RelationKind) (fwd, bwd *Relation) {
	fwd = &Relation{id: fwdID, name: fwdName, kind: fwdKind}
	bwd = &Relation{id: bwdID, name: bwdName, kind: bwdKind}
	fwd.reverse = bwd
	bwd.reverse = fwd
	return fwd, bwd
}

func (r *Relation) ID() int             { return r.id }
func (r *Relation) Name() string        { return r.name }
func (r *Relation) Kind() RelationKind  { return r.kind }
func (r *Relation) Reverse() *Relation  { return r.reverse }
func (r *Relation) IsSelf() bool        { return r.kind == RelationSelf }
