package ondevice

import (
	"math"
	"strings"
)

// SentimentScore reduces ranked POSITIVE/NEGATIVE labels to the probability
// that the text is positive, in [0,1]. The top label decides: a POSITIVE
// top label yields its score, a NEGATIVE one yields 1-score. Models using
// LABEL_1/LABEL_0 are treated as positive/negative respectively.
func SentimentScore(labels []LabelScore) (float64, bool) {
	if len(labels) == 0 {
		return 0, false
	}
	top := labels[0]
	for _, l := range labels[1:] {
		if l.Score > top.Score {
			top = l
		}
	}
	s := clamp01(top.Score)
	switch strings.ToUpper(strings.TrimSpace(top.Label)) {
	case "POSITIVE", "POS", "LABEL_1":
		return s, true
	case "NEGATIVE", "NEG", "LABEL_0":
		return 1 - s, true
	}
	return 0, false
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// L2Normalize scales v in place to unit length. A zero vector is left as is.
func L2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
