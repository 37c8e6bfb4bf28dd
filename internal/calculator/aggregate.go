package calculator

// CategoryRate is the slice of a persisted cost-rate row the aggregator reads.
type CategoryRate struct {
	Category    string
	RatePercent float64
}

// Aggregates maps each inclusion key to a summed rate in whole percent (7.65 means 7.65%).
type Aggregates map[InclusionKey]float64

// Aggregate sums the rates of rows whose category belongs to each inclusion
// key for state. Rows are expected to be pre-filtered to state by the caller.
// Duplicate rows are additive, but a row counts once per key even when two of
// the key's category labels coincide. Every key is present in the result.
func Aggregate(state string, rows []CategoryRate) Aggregates {
	byCategory := make(map[string]float64, len(rows))
	for _, r := range rows {
		byCategory[r.Category] += r.RatePercent
	}

	agg := make(Aggregates, len(allInclusionKeys))
	for _, key := range allInclusionKeys {
		var sum float64
		seen := make(map[string]bool, 5)
		for _, cat := range CategoriesFor(key, state) {
			if seen[cat] {
				continue
			}
			seen[cat] = true
			sum += byCategory[cat]
		}
		agg[key] = sum
	}
	return agg
}
