package search

import "sort"

// RRF fuses multiple ranked uuid lists into one list via Reciprocal Rank
// Fusion. Each uuid scores the sum of 1/(k + rank) over every list it appears
// in, with one-based ranks; k is the rankConstant (DefaultRankConstant when
// non-positive). Lists must not contain duplicates internally.
//
// The output is the union of all input uuids ordered by descending score.
// Ties break by first-seen order across the input lists, so the function is a
// pure, reproducible map from inputs to output.
func RRF(rankings [][]string, rankConstant int) ([]string, []float64) {
	if rankConstant <= 0 {
		rankConstant = DefaultRankConstant
	}

	scores := make(map[string]float64)
	firstSeen := make(map[string]int)
	order := make([]string, 0)

	for _, ranking := range rankings {
		for i, uuid := range ranking {
			if _, seen := scores[uuid]; !seen {
				firstSeen[uuid] = len(order)
				order = append(order, uuid)
			}
			scores[uuid] += 1.0 / float64(rankConstant+i+1)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		si, sj := scores[order[i]], scores[order[j]]
		if si != sj {
			return si > sj
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	scoreList := make([]float64, len(order))
	for i, uuid := range order {
		scoreList[i] = scores[uuid]
	}
	return order, scoreList
}
