package fields

import "sort"

// FlattenedType is a per-type, per-direction
// table mapping FieldDefinition.id to a compact slot index, plus the
// reverse slot -> []FieldDefinition mapping. One exists for the input side
// and one for the output side of every Type, built once by
// Registry.FlattenTypeHierarchy and never mutated afterward.
type FlattenedType struct {
	numberOfFields int
	slotOf         map[int]int
	fieldsAt       [][]*FieldDefinition
}

// NumberOfFields is the slot count: one more than the maximum slot index
// used by this side.
func (ft *FlattenedType) NumberOfFields() int { return ft.numberOfFields }

// SlotFor returns the slot index of fieldID, or -1 if this side has no
// slot for it.
func (ft *FlattenedType) SlotFor(fieldID int) int {
	if s, ok := ft.slotOf[fieldID]; ok {
		return s
	}
	return -1
}

// FieldDefinitionsAt returns every FieldDefinition mapped to slot; more
// than one entry means distinct same-named fields (from diamond
// inheritance) were merged onto that slot.
func (ft *FlattenedType) FieldDefinitionsAt(slot int) []*FieldDefinition {
	if slot < 0 || slot >= len(ft.fieldsAt) {
		return nil
	}
	return ft.fieldsAt[slot]
}

// buildFlattenedType computes t's input-side and output-side
// FlattenedType:
//
//   - Input side includes only field defs with at least one input link
//     (numArgs > 0); slots assigned sequentially in registry (id) order.
//   - Output side includes only field defs with at least one output link;
//     a field reuses its same-named input-side slot if one exists,
//     otherwise it gets a fresh slot beyond the input range. Two
//     output-only fields that share a name (no input-side counterpart,
//     e.g. unmerged diamond-inherited source fields) are likewise merged
//     onto one slot, so "same name -> same slot" holds uniformly.
func buildFlattenedType(t *Type) (input, output *FlattenedType) {
	fds := t.collectFlattenedFieldDefinitions()
	sort.Slice(fds, func(i, j int) bool { return fds[i].id < fds[j].id })

	input = &FlattenedType{slotOf: make(map[int]int)}
	for _, fd := range fds {
		if fd.numArgs == 0 {
			continue
		}
		slot := input.numberOfFields
		input.slotOf[fd.id] = slot
		input.fieldsAt = append(input.fieldsAt, []*FieldDefinition{fd})
		input.numberOfFields++
	}

	output = &FlattenedType{slotOf: make(map[int]int)}
	nameToSlot := make(map[string]int, len(fds))
	for _, fd := range fds {
		if slot, ok := input.slotOf[fd.id]; ok {
			nameToSlot[fd.name] = slot
		}
	}
	output.numberOfFields = input.numberOfFields
	for _, fd := range fds {
		if len(fd.outputLinks) == 0 {
			continue
		}
		slot, known := nameToSlot[fd.name]
		if !known {
			slot = output.numberOfFields
			nameToSlot[fd.name] = slot
			output.numberOfFields++
		}
		output.slotOf[fd.id] = slot
		for len(output.fieldsAt) <= slot {
			output.fieldsAt = append(output.fieldsAt, nil)
		}
		output.fieldsAt[slot] = append(output.fieldsAt[slot], fd)
	}

	return input, output
}
