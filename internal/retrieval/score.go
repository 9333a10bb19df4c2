package retrieval

// Raw scores from different signal families are never comparable; each is
// normalized to [0,1] independently before fusion.

// normalizeDense clamps a raw inner-product/cosine similarity into [0,1].
// Negative similarity carries no ranking value for this corpus.
func normalizeDense(raw float64) float64 {
	switch {
	case raw < 0:
		return 0
	case raw > 1:
		return 1
	default:
		return raw
	}
}

// normalizeSparse scales a raw BM25 score by the maximum score of the
// result set, so the best lexical hit maps to 1.0 per call.
func normalizeSparse(raw, max float64) float64 {
	if max <= 0 || raw <= 0 {
		return 0
	}
	n := raw / max
	if n > 1 {
		return 1
	}
	return n
}

func maxLexicalScore(hits []LexicalHit) float64 {
	var max float64
	for _, h := range hits {
		if h.Score > max {
			max = h.Score
		}
	}
	return max
}

//Personal.AI order the ending
