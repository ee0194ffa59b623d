package services

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged. The input is never modified.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}
	norm := math.Sqrt(float64(vek32.Dot(v, v)))
	if norm == 0 {
		return append([]float32(nil), v...)
	}
	return vek32.MulNumber(v, float32(1/norm))
}

// Similarity is the dot product of two vectors of equal length. For
// normalised vectors it is their cosine similarity.
func Similarity(a, b []float32) float32 {
	return vek32.Dot(a, b)
}
