package fields

// testObject is a minimal Object implementation used only by this
// package's own tests to exercise relation traversal, flattening, and
// propagation without depending on the network package.
type testObject struct {
	BaseObject
	links map[int]*testObject
}

func newTestObject(typ *Type) *testObject {
	o := &testObject{links: make(map[int]*testObject)}
	o.Init(o, typ)
	return o
}

// linkTestObjects makes a and b mutually reachable via rel and
// rel.Reverse().
func linkTestObjects(a *testObject, rel *Relation, b *testObject) {
	a.links[rel.ID()] = b
	b.links[rel.Reverse().ID()] = a
}

func (o *testObject) Follow(rel *Relation) []Object {
	if rel.IsSelf() {
		return []Object{o}
	}
	related, ok := o.links[rel.ID()]
	if !ok {
		return nil
	}
	return []Object{related}
}

// testSchema bundles a small registry with one type and the relation set
// every test fixture needs: a self relation plus two independent one/one
// pairs, enough to wire a two-argument function field to two distinct
// producer objects.
type testSchema struct {
	reg     *Registry
	typ     *Type
	self    *Relation
	relA    *Relation // Pair -> arg0 producer
	relB    *Relation // Pair -> arg1 producer
	fromRel *Relation
	toRel   *Relation
}

func newTestSchema(name string) *testSchema {
	reg := NewRegistry()
	typ, _ := reg.NewType(name)
	self := NewSelfRelation(0, "TEST_SELF")
	from, to := NewRelationPair(1, "TEST_FROM", RelationOne, 2, "TEST_TO", RelationOne)
	relA, _ := NewRelationPair(3, "TEST_ARG_A", RelationOne, 4, "TEST_ARG_A_REV", RelationOne)
	relB, _ := NewRelationPair(5, "TEST_ARG_B", RelationOne, 6, "TEST_ARG_B_REV", RelationOne)
	typ.AddRelation(self)
	typ.AddRelation(from)
	typ.AddRelation(to)
	typ.AddRelation(relA)
	typ.AddRelation(relB)
	return &testSchema{reg: reg, typ: typ, self: self, relA: relA, relB: relB, fromRel: from, toRel: to}
}
