package simfile

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a sample sequence.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes basic statistics for samples.
// An empty sequence yields a zero Summary.
func Summarize(samples []int) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	xs := make([]float64, len(samples))
	for i, v := range samples {
		xs[i] = float64(v)
	}

	s := Summary{
		Count: len(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
	}
	if len(xs) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	} else {
		s.Mean = xs[0]
	}
	return s
}
