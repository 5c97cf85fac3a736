package smartmatch

import "github.com/shopspring/decimal"

// Subset-sum search for split matches: several items on one side summing
// to the source amount on the other. Pairs are scanned exhaustively
// (O(n^2)); triples only over the first tripleSearchLimit items.

// splitTolerance is the relative tolerance for a combination's sum: within
// 1% of the source amount.
var splitTolerance = decimal.NewFromFloat(0.01)

// searchSplits returns synthetic split suggestions whose member amounts
// sum to the source amount within tolerance. Scores are capped below any
// confident single match and shrink with the residual difference.
func (e *Engine) searchSplits(source decimal.Decimal, amounts []decimal.Decimal) []Suggestion {
	if source.IsZero() || len(amounts) < 2 {
		return nil
	}

	tolerance := source.Abs().Mul(splitTolerance)
	var suggestions []Suggestion

	for i := 0; i < len(amounts); i++ {
		for j := i + 1; j < len(amounts); j++ {
			sum := amounts[i].Add(amounts[j])
			if diff := source.Sub(sum).Abs(); diff.LessThanOrEqual(tolerance) {
				suggestions = append(suggestions, Suggestion{
					Indexes: []int{i, j},
					Score:   splitScore(source, diff),
					Split:   true,
					Reasons: []string{splitReason(2)},
				})
			}
		}
	}

	if e.config.EnableTriples {
		limit := len(amounts)
		if limit > tripleSearchLimit {
			limit = tripleSearchLimit
		}
		for i := 0; i < limit; i++ {
			for j := i + 1; j < limit; j++ {
				for k := j + 1; k < limit; k++ {
					sum := amounts[i].Add(amounts[j]).Add(amounts[k])
					if diff := source.Sub(sum).Abs(); diff.LessThanOrEqual(tolerance) {
						suggestions = append(suggestions, Suggestion{
							Indexes: []int{i, j, k},
							Score:   splitScore(source, diff),
							Split:   true,
							Reasons: []string{splitReason(3)},
						})
					}
				}
			}
		}
	}

	return suggestions
}

// splitScore starts at the cap for an exact-sum split and decays linearly
// with the residual as a share of the tolerance window.
func splitScore(source, diff decimal.Decimal) float64 {
	if source.IsZero() {
		return 0
	}
	residual := diff.Div(source.Abs().Mul(splitTolerance)).InexactFloat64()
	score := splitScoreCap * (1 - 0.1*residual)
	if score < 0 {
		return 0
	}
	return score
}
