package planc

import (
	"crypto/sha256"
	"encoding/binary"
)

// NodeHash is the 16-byte content-derived identity C1 assigns to a
// stream node.
type NodeHash [16]byte

// LegacyHasher produces one additional, backward-compatible hash per
// node alongside the primary identity. Salt distinguishes one legacy
// hasher's digest from another's and from the primary hasher's.
type LegacyHasher struct {
	HasherName string
	Salt       byte
}

func (h LegacyHasher) Name() string {
	return h.HasherName
}

// hashResult is the per-node output of C1: the primary hash plus one
// hash per configured legacy hasher, in hasher order.
type hashResult struct {
	primary map[int]NodeHash
	legacy  map[int][]NodeHash
}

// computeHashes assigns every node in g a primary hash and, for each
// configured legacy hasher, an additional hash. Nodes are folded in
// repeated passes over every node id in ascending order: a pass folds
// each node whose required predecessors (excluding iteration back-edges)
// have already been folded, including those folded earlier in the same
// pass, and defers the rest to the next pass. The visitation counter
// follows this ascending-id order, not a breadth-first order from the
// sources.
func computeHashes(g *Graph, legacyHashers []LegacyHasher) (*hashResult, error) {
	ids := g.SortedNodeIDs()

	predecessors := make(map[int][]int, len(ids))
	for _, id := range ids {
		for _, e := range g.InEdges(id) {
			if g.isIterationBackEdge(e) {
				continue
			}
			predecessors[id] = append(predecessors[id], e.SourceID)
		}
	}

	result := &hashResult{
		primary: make(map[int]NodeHash, len(ids)),
		legacy:  make(map[int][]NodeHash, len(ids)),
	}

	remaining := ids
	counter := 0
	for len(remaining) > 0 {
		var next []int
		progressed := false
		for _, id := range remaining {
			if !allHashed(predecessors[id], result.primary) {
				next = append(next, id)
				continue
			}
			node := g.Node(id)
			result.primary[id] = foldHash(node, counter, predecessors[id], result.primary, nil)
			for _, lh := range legacyHashers {
				result.legacy[id] = append(result.legacy[id], foldHash(node, counter, predecessors[id], result.primary, &lh))
			}
			counter++
			progressed = true
		}
		if !progressed {
			return nil, nodeErr(remaining[0], ErrMissingHash, "unresolved predecessor cycle prevents hashing")
		}
		remaining = next
	}

	return result, nil
}

func allHashed(preds []int, hashed map[int]NodeHash) bool {
	for _, p := range preds {
		if _, ok := hashed[p]; !ok {
			return false
		}
	}
	return true
}

// foldHash folds the visitation counter, the node's chaining strategy,
// its legacy hash override if any, and each predecessor's
// already-computed hash (in input-edge order) into a SHA-256 digest,
// truncated to 16 bytes.
func foldHash(node *StreamNode, counter int, preds []int, hashed map[int]NodeHash, legacy *LegacyHasher) NodeHash {
	h := sha256.New()

	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], uint64(counter))
	h.Write(counterBytes[:])

	h.Write([]byte{byte(node.ChainingStrategy)})

	if legacy != nil {
		h.Write([]byte{legacy.Salt})
		h.Write([]byte(legacy.HasherName))
	}

	if node.UserHash != nil {
		h.Write(node.UserHash)
	}

	for _, p := range preds {
		ph := hashed[p]
		h.Write(ph[:])
	}

	digest := h.Sum(nil)
	var out NodeHash
	copy(out[:], digest[:16])
	return out
}
