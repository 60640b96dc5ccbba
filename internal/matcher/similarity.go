package matcher

import (
	"math"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// indel is Levenshtein without substitutions: a replace costs a delete plus
// an insert, so the distance is the combined length minus twice the longest
// common subsequence.
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// Ratio scores two strings 0..100 by indel similarity over the combined rune
// length. An empty side scores 0.
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	total := la + lb
	return int(math.Round(100 * float64(total-indel.Distance(a, b)) / float64(total)))
}

// TokenSetRatio compares the word sets of two normalized strings. The shared
// words are compared against each side's shared-plus-remaining words and the
// best pairing wins, so word order and repeated words do not matter and a
// query that is a subset of a question scores high.
func TokenSetRatio(a, b string) int {
	setA := strutil.UniqueSlice(Tokens(a))
	setB := strutil.UniqueSlice(Tokens(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for _, tok := range setA {
		if strutil.SliceContains(setB, tok) {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for _, tok := range setB {
		if !strutil.SliceContains(setA, tok) {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(common, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := Ratio(combinedA, combinedB)
	if sect != "" {
		best = max(best, Ratio(sect, combinedA), Ratio(sect, combinedB))
	}
	return best
}
