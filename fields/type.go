package fields

// Type is a named node in an inheritance DAG: stable short id,
// parent list, derived child list, owned FieldDefinitions, Relations, and a
// lazily computed depth used only to order flattening.
type Type struct {
	registry *Registry
	id       int
	name     string

	parents  []*Type
	children []*Type

	ownFields    map[int]*FieldDefinition
	relations    []*Relation

	depth         int
	depthComputed bool

	flatIn  *FlattenedType
	flatOut *FlattenedType
}

// newType allocates a Type and registers it with reg, assigning the next
// stable short id in creation order.
func newType(reg *Registry, name string, parents ...*Type) *Type {
	t := &Type{
		registry:  reg,
		name:      name,
		parents:   parents,
		ownFields: make(map[int]*FieldDefinition),
	}
	for _, p := range parents {
		p.children = append(p.children, t)
	}
	t.id = reg.registerType(t)
	return t
}

func (t *Type) ID() int           { return t.id }
func (t *Type) Name() string      { return t.name }
func (t *Type) Parents() []*Type  { return t.parents }
func (t *Type) Children() []*Type { return t.children }

func (t *Type) addOwnField(fd *FieldDefinition) { t.ownFields[fd.id] = fd }

// AddRelation attaches rel to t's declared relation set.
func (t *Type) AddRelation(rel *Relation) { t.relations = append(t.relations, rel) }

// Relations returns the relations declared on t (not inherited; callers
// that need the full inherited set should walk Parents()).
func (t *Type) Relations() []*Relation { return t.relations }

// IsInstanceOf reports whether t is o or descends from o through the
// parent DAG.
func (t *Type) IsInstanceOf(o *Type) bool {
	if t == o {
		return true
	}
	for _, p := range t.parents {
		if p.IsInstanceOf(o) {
			return true
		}
	}
	return false
}

// Depth is 1 + max(parent.Depth()) for types with parents, 0 for roots.
// Computed lazily and memoized; used only to order flattening so parents
// are always flattened before children.
func (t *Type) Depth() int {
	if t.depthComputed {
		return t.depth
	}
	max := -1
	for _, p := range t.parents {
		if d := p.Depth(); d > max {
			max = d
		}
	}
	t.depth = max + 1
	t.depthComputed = true
	return t.depth
}

func (t *Type) FlattenedInput() *FlattenedType  { return t.flatIn }
func (t *Type) FlattenedOutput() *FlattenedType { return t.flatOut }

// collectFlattenedFieldDefinitions returns the set-union of own fields and
// parents' recursively. When t itself declares a field (including a
// ProxyField) sharing a name with one or more inherited fields, t's own
// declaration replaces every inherited entry of that name in the returned
// set - this is how a ProxyField picks a single target among colliding
// multiple-inheritance fields. Without an overriding declaration,
// colliding same-named inherited fields all remain in the set; only the
// output-side slot assignment later merges them by name.
func (t *Type) collectFlattenedFieldDefinitions() []*FieldDefinition {
	byID := make(map[int]*FieldDefinition)
	for _, p := range t.parents {
		for _, fd := range p.collectFlattenedFieldDefinitions() {
			byID[fd.id] = fd
		}
	}

	ownByName := make(map[string]*FieldDefinition, len(t.ownFields))
	for _, fd := range t.ownFields {
		ownByName[fd.name] = fd
	}
	for name, ownFD := range ownByName {
		for id, fd := range byID {
			if fd.name == name && fd != ownFD {
				delete(byID, id)
			}
		}
		byID[ownFD.id] = ownFD
	}

	// A ProxyField stands in for its target by name, but the target itself
	// still participates in the set: it owns the input links the proxy
	// delegates to, and its input-side slot is what the proxy's
	// same-named output-side entry collapses onto.
	for _, fd := range t.ownFields {
		if fd.isProxy && fd.proxyTarget != nil {
			byID[fd.proxyTarget.id] = fd.proxyTarget
		}
	}

	out := make([]*FieldDefinition, 0, len(byID))
	for _, fd := range byID {
		out = append(out, fd)
	}
	return out
}
