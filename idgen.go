package planc

import "crypto/sha256"

// deriveJobID folds every vertex's identity, in append order, into a
// single 16-byte id for job graphs whose caller did not supply one. Since
// vertex ids are themselves content-derived and appended in a
// build-order that is deterministic for a given graph, the result is
// stable across resubmissions of an equal stream graph.
func deriveJobID(vertices []*JobVertex) JobVertexID {
	h := sha256.New()
	for _, v := range vertices {
		h.Write(v.ID[:])
	}

	var out JobVertexID
	copy(out[:], h.Sum(nil)[:16])
	return out
}
