package inference

import (
	"strings"

	"reflectd/pkg/types"
)

// Mood thresholds over the positive sentiment score. A score exactly on a
// boundary falls into the lower bucket.
const (
	happyAbove      = 0.6
	neutralAbove    = 0.4
	reflectiveAbove = 0.2
)

// MoodFromScore buckets a sentiment score in [0,1].
func MoodFromScore(score float64) types.Mood {
	switch {
	case score > happyAbove:
		return types.MoodHappy
	case score > neutralAbove:
		return types.MoodNeutral
	case score > reflectiveAbove:
		return types.MoodReflective
	default:
		return types.MoodSad
	}
}

// quotePairs maps opening quote characters to their closing partner.
var quotePairs = map[rune]rune{'"': '"', '\'': '\'', '“': '”', '‘': '’', '«': '»'}

// StripQuotes removes one matching pair of quote characters (and the
// surrounding whitespace) wrapping a model answer. Inner quotes are kept.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) < 2 {
		return s
	}
	if closing, ok := quotePairs[r[0]]; ok && r[len(r)-1] == closing {
		return strings.TrimSpace(string(r[1 : len(r)-1]))
	}
	return s
}
