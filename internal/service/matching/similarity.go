package matching

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// CandidateVector pairs a candidate report id with its embedding.
type CandidateVector struct {
	ID     uuid.UUID
	Vector []float32
}

// Rank scores every candidate against the source embedding by cosine
// similarity, clamped to [0, 1], and returns them sorted best first.
// Equal scores are ordered by candidate id so the result is deterministic.
func Rank(source []float32, candidates []CandidateVector) []domain.MatchCandidate {
	ranked := make([]domain.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, domain.MatchCandidate{
			ReportID: c.ID,
			Score:    CosineSimilarity(source, c.Vector),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ReportID.String() < ranked[j].ReportID.String()
	})

	return ranked
}

// CosineSimilarity computes the cosine of the angle between two vectors,
// clamped to [0, 1]. Zero or mismatched vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
