package model

import "math"

// Argmax returns the position and value of the largest element of output.
//
// NaN orders below every number, so it only wins when the whole vector is
// NaN. Ties keep the first occurrence.
func Argmax(output []float32) (ClassificationResult, error) {
	if len(output) == 0 {
		return ClassificationResult{}, ErrEmptyOutput
	}

	maxIdx := 0
	maxVal := output[0]
	for i, val := range output[1:] {
		if greater(val, maxVal) {
			maxVal = val
			maxIdx = i + 1
		}
	}

	return ClassificationResult{
		Index:       uint32(maxIdx),
		Probability: maxVal,
	}, nil
}

func greater(a, b float32) bool {
	aNaN := math.IsNaN(float64(a))
	bNaN := math.IsNaN(float64(b))
	switch {
	case aNaN:
		return false
	case bNaN:
		return true
	}
	return a > b
}
