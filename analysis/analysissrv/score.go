package analysissrv

import (
	"math"

	"github.com/resumatch/resumatch/analysis"
)

// FitScore is the percentage of job description requirements the
// resume satisfies, rounded to two decimals. A job description with no
// recognized skills yields 100: nothing was required, nothing is
// missing.
func FitScore(match *analysis.MatchResult) float64 {
	required := len(match.Matched) + len(match.Missing)
	if required == 0 {
		return 100
	}
	score := 100 * float64(len(match.Matched)) / float64(required)
	return math.Round(score*100) / 100
}
