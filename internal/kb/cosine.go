package kb

import "math"

// cosineEpsilon keeps the division defined when either vector is all-zero.
const cosineEpsilon = 1e-8

// CosineSimilarity returns the cosine of the angle between a and b.
// Both vectors must come from the same embedding model; mismatched
// lengths are the caller's bug and are truncated to the shorter vector.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon)
}
