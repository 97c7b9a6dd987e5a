package planc

import (
	"fmt"
	"sort"
)

// coLocationEntry backs the interning table used while resolving
// placement for a single compile; it lives outside builder because
// placement runs as one self-contained pass over the already-built job
// vertices.
type coLocationEntry struct {
	group *CoLocationGroup
	slot  *SlotSharingGroup
}

// resolvePlacement assigns each job vertex its slot-sharing group and,
// where declared, its co-location group, then forces every iteration
// source/sink pair into a shared co-location group regardless of what
// was assigned above.
func (b *builder) resolvePlacement() error {
	slotGroups := make(map[string]*SlotSharingGroup)
	coGroups := make(map[string]*coLocationEntry)

	startIDs := make([]int, 0, len(b.jobVertices))
	for id := range b.jobVertices {
		startIDs = append(startIDs, id)
	}
	sort.Ints(startIDs)

	for _, id := range startIDs {
		vertex := b.jobVertices[id]
		node := b.graph.Node(id)

		var slot *SlotSharingGroup
		if node.SlotSharingGroup != "" {
			slot = slotGroups[node.SlotSharingGroup]
			if slot == nil {
				slot = &SlotSharingGroup{Name: node.SlotSharingGroup}
				slotGroups[node.SlotSharingGroup] = slot
			}
			vertex.SlotSharingGroup = slot
		}

		if node.CoLocationGroup == "" {
			continue
		}
		if slot == nil {
			return nodeErr(id, ErrIllegalCoLocation,
				"co-location group %q requires a slot-sharing group", node.CoLocationGroup)
		}

		entry := coGroups[node.CoLocationGroup]
		if entry == nil {
			entry = &coLocationEntry{
				group: &CoLocationGroup{Name: node.CoLocationGroup},
				slot:  slot,
			}
			coGroups[node.CoLocationGroup] = entry
		} else if entry.slot != slot {
			return nodeErr(id, ErrIllegalCoLocation,
				"co-location group %q spans distinct slot-sharing groups", node.CoLocationGroup)
		}

		entry.group.Members = append(entry.group.Members, vertex.ID)
		vertex.CoLocationGroup = entry.group
	}

	for _, pair := range b.graph.IterationPairs {
		source, ok := b.jobVertices[pair.SourceID]
		if !ok {
			continue
		}
		sink, ok := b.jobVertices[pair.SinkID]
		if !ok {
			continue
		}

		group := &CoLocationGroup{
			Name:    fmt.Sprintf("iteration-%d-%d", pair.SourceID, pair.SinkID),
			Members: []JobVertexID{source.ID, sink.ID},
		}
		source.CoLocationGroup = group
		sink.CoLocationGroup = group
	}

	return nil
}
