/*
=================================================================================
TYPE REGISTRY - SCHEMA CONSTRUCTION AND FLATTENING
=================================================================================

Registry assigns stable, process-wide ids to Types and FieldDefinitions
in creation order, then flattens the
whole hierarchy exactly once via FlattenTypeHierarchy. After flattening, no
further Type or FieldDefinition may be declared - attempting to do so
returns an *errs.SchemaFrozenError, fatal at declaration time.

Schema construction is explicitly single-threaded, so Registry takes no
lock of its own; callers building a schema do so from one goroutine before
any Context exists.
=================================================================================
*/
package fields

import (
	"sort"

	"github.com/fieldmesh/sparsenet/errs"
)

// Registry owns every Type and FieldDefinition in a schema.
type Registry struct {
	types       []*Type
	fieldDefs   map[int]*FieldDefinition
	nextFieldID int
	frozen      bool
}

// NewRegistry returns an empty Registry ready for schema declarations.
func NewRegistry() *Registry {
	return &Registry{fieldDefs: make(map[int]*FieldDefinition)}
}

// NewType declares a new Type with the given parents, returning an error if
// the schema is already frozen.
func (r *Registry) NewType(name string, parents ...*Type) (*Type, error) {
	if r.frozen {
		return nil, &errs.SchemaFrozenError{Detail: "cannot declare type " + name + " after flattening"}
	}
	return newType(r, name, parents...), nil
}

// NewField declares a FieldDefinition with numArgs positional inputs,
// owned by objectType.
func (r *Registry) NewField(objectType *Type, name string, numArgs int) (*FieldDefinition, error) {
	if r.frozen {
		return nil, &errs.SchemaFrozenError{Detail: "cannot declare field " + name + " after flattening"}
	}
	return newFieldDefinition(r, objectType, name, numArgs), nil
}

// NewProxyField declares a ProxyField on objectType delegating
// transmission to target.
func (r *Registry) NewProxyField(objectType *Type, name string, target *FieldDefinition) (*FieldDefinition, error) {
	if r.frozen {
		return nil, &errs.SchemaFrozenError{Detail: "cannot declare proxy field " + name + " after flattening"}
	}
	return newProxyFieldDefinition(r, objectType, name, target), nil
}

// registerType assigns the next monotonically increasing short id.
func (r *Registry) registerType(t *Type) int {
	id := len(r.types)
	r.types = append(r.types, t)
	return id
}

// createFieldID returns the next monotonic field definition id.
func (r *Registry) createFieldID() int {
	id := r.nextFieldID
	r.nextFieldID++
	return id
}

func (r *Registry) registerFieldDefinition(fd *FieldDefinition) {
	r.fieldDefs[fd.id] = fd
}

// FieldDefinitionByID looks up a previously declared field definition.
func (r *Registry) FieldDefinitionByID(id int) (*FieldDefinition, bool) {
	fd, ok := r.fieldDefs[id]
	return fd, ok
}

// Types returns every declared type in registration order.
func (r *Registry) Types() []*Type { return r.types }

// IsFrozen reports whether FlattenTypeHierarchy has run.
func (r *Registry) IsFrozen() bool { return r.frozen }

// FlattenTypeHierarchy computes every Type's depth, then builds each
// Type's input-side and output-side FlattenedType in depth-ascending order
// so parents are always flattened before children. After
// this call, no field or type may be added.
func (r *Registry) FlattenTypeHierarchy() error {
	if r.frozen {
		return &errs.SchemaFrozenError{Detail: "FlattenTypeHierarchy already ran"}
	}

	ordered := make([]*Type, len(r.types))
	copy(ordered, r.types)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Depth() < ordered[j].Depth()
	})

	for _, t := range ordered {
		t.flatIn, t.flatOut = buildFlattenedType(t)
	}

	r.frozen = true
	return nil
}
