package classification

import (
	"fmt"

	"github.com/kbukum/soundguard/errors"
)

// MeanScores averages each class column over all frames. Every row must
// have the same width.
func MeanScores(m ScoreMatrix) ([]float32, error) {
	if len(m) == 0 {
		return nil, nil
	}
	width := len(m[0])
	sums := make([]float64, width)
	for f, row := range m {
		if len(row) != width {
			return nil, fmt.Errorf("frame %d has %d scores, want %d", f, len(row), width)
		}
		for c, s := range row {
			sums[c] += float64(s)
		}
	}
	means := make([]float32, width)
	for c, s := range sums {
		means[c] = float32(s / float64(len(m)))
	}
	return means, nil
}

// argmax returns the first index holding the maximum.
func argmax(v []float32) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// SelectLabel picks the class with the highest mean score across frames.
// Ties resolve to the lowest index.
func SelectLabel(m ScoreMatrix, t *Taxonomy) (*Result, error) {
	if m.Frames() == 0 {
		return nil, errors.EmptyAudio("classify")
	}
	means, err := MeanScores(m)
	if err != nil {
		return nil, errors.InferenceFailed("classifier", err)
	}
	if len(means) == 0 {
		return nil, errors.UnknownLabel("model returned no class scores")
	}

	idx := argmax(means)
	label, ok := t.Label(idx)
	if !ok {
		return nil, errors.UnknownLabel(fmt.Sprintf("class index %d outside taxonomy of %d classes", idx, t.Len())).
			WithDetail("index", idx)
	}
	return &Result{Label: label, Index: idx, Score: means[idx]}, nil
}
