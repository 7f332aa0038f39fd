package semantic

// Midpoint ranking weights. Balance dominates coverage: being *between*
// the anchors matters more than raw proximity to both.
const (
	balanceWeight  = 0.6
	coverageWeight = 0.4
)

// Candidate is one pool entry considered as a midpoint between two
// anchors.
type Candidate struct {
	ID     string
	Vector []float64
}

// MidpointScore is the per-candidate breakdown of the midpoint ranking.
type MidpointScore struct {
	ID       string
	SimA     float64
	SimB     float64
	Balance  float64 // 1 - |simA - simB|
	Coverage float64 // (simA + simB) / 2
	Final    float64 // balanceWeight*Balance + coverageWeight*Coverage
}

// BestMidpoint ranks every candidate as a semantic midpoint between
// anchors a and b and returns the index of the best one plus the full
// per-candidate breakdown, in input order. Ties keep the earlier
// candidate, so results are deterministic for a given pool order.
func BestMidpoint(a, b []float64, pool []Candidate) (int, []MidpointScore, error) {
	if len(pool) == 0 {
		return -1, nil, ErrEmptyInput
	}

	scores := make([]MidpointScore, len(pool))
	best := 0
	for i, c := range pool {
		simA, err := Cosine(c.Vector, a)
		if err != nil {
			return -1, nil, err
		}
		simB, err := Cosine(c.Vector, b)
		if err != nil {
			return -1, nil, err
		}

		diff := simA - simB
		if diff < 0 {
			diff = -diff
		}
		s := MidpointScore{
			ID:       c.ID,
			SimA:     simA,
			SimB:     simB,
			Balance:  1 - diff,
			Coverage: (simA + simB) / 2,
		}
		s.Final = balanceWeight*s.Balance + coverageWeight*s.Coverage
		scores[i] = s

		// Strict greater-than keeps the first of tied candidates.
		if s.Final > scores[best].Final {
			best = i
		}
	}

	return best, scores, nil
}
