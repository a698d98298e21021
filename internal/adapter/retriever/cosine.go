package retriever

import "math"

// CosineSimilarity calculates the cosine similarity between two vectors.
// Vectors of different length, or with zero norm, score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// BestMatch returns the index and score of the vector most similar to query.
// Ties go to the earliest candidate. Returns -1 for an empty candidate list.
func BestMatch(query []float32, candidates [][]float32) (int, float64) {
	bestIdx := -1
	bestScore := math.Inf(-1)

	for i, c := range candidates {
		score := CosineSimilarity(query, c)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return -1, 0
	}
	return bestIdx, bestScore
}
