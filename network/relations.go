package network

import "github.com/fieldmesh/sparsenet/fields"

// Upstream/Downstream is the one relation pair every NeuronType's field
// schema shares: following Upstream from an Activation's Object side walks
// to the Activations feeding its net-input field, Downstream walks to the
// Activations it feeds in turn. A single pair suffices because, unlike
// the general field graph, the activation network's only typed
// relation is "the other end of a Link" - the sparse topology itself
// (which Links exist) is what varies, not the relation kind.
var (
	upstream     *fields.Relation
	downstream   *fields.Relation
	selfRelation *fields.Relation
)

func init() {
	upstream, downstream = fields.NewRelationPair(0, "UPSTREAM", fields.RelationMany, 1, "DOWNSTREAM", fields.RelationMany)
	selfRelation = fields.NewSelfRelation(2, "SELF")
}
