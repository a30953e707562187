package marks

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the spread of a set of marks.
type Summary struct {
	Count       int
	CentroidX   float64
	CentroidY   float64
	MeanNearest float64 // mean distance from each mark to its nearest neighbour
	MinNearest  float64
	// Close lists pairs of zero-based indices whose marks are nearer than
	// the threshold passed to Summarize. These are usually double clicks.
	Close [][2]int
	// Outside is the number of marks off the image. Summarize leaves it
	// zero; callers that know the image bounds fill it in.
	Outside int
}

// Summarize computes a Summary for marks. Pairs closer than closeDist are
// reported in Close. Nearest-neighbour figures are zero with fewer than two
// marks.
func Summarize(marks []Mark, closeDist float64) Summary {
	s := Summary{Count: len(marks)}
	if len(marks) == 0 {
		return s
	}

	xs := make([]float64, len(marks))
	ys := make([]float64, len(marks))
	for i, m := range marks {
		xs[i] = float64(m.X)
		ys[i] = float64(m.Y)
	}
	s.CentroidX = stat.Mean(xs, nil)
	s.CentroidY = stat.Mean(ys, nil)

	if len(marks) < 2 {
		return s
	}

	nearest := make([]float64, len(marks))
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}
	for i := 0; i < len(marks); i++ {
		for j := i + 1; j < len(marks); j++ {
			d := math.Hypot(xs[i]-xs[j], ys[i]-ys[j])
			if d < nearest[i] {
				nearest[i] = d
			}
			if d < nearest[j] {
				nearest[j] = d
			}
			if d < closeDist {
				s.Close = append(s.Close, [2]int{i, j})
			}
		}
	}
	s.MeanNearest = stat.Mean(nearest, nil)
	s.MinNearest = floats.Min(nearest)
	return s
}
