package dataprocessing

import (
	"math"

	"indicli/pkg/contracts/domain"
)

// Correlate computes pairwise Pearson coefficients over the aligned frame.
// Only months where both columns hold actual observations enter a pair's
// overlap; carried-forward fills are excluded so repeated values cannot
// manufacture correlation. Pairs whose overlap falls below minOverlap, or
// whose overlap has zero variance, are left undefined (NaN). The overlap
// floor applies to the diagonal too: a series with fewer actual
// observations than minOverlap is undefined even against itself.
func Correlate(frame *domain.Frame, minOverlap int) *domain.CorrelationMatrix {
	if minOverlap < 2 {
		minOverlap = 2
	}

	matrix := domain.NewCorrelationMatrix(frame.Order, minOverlap)

	for i, a := range frame.Order {
		for j := i; j < len(frame.Order); j++ {
			b := frame.Order[j]
			if i == j {
				n := overlapSize(frame, a)
				coeff := 1.0
				if n < minOverlap {
					coeff = math.NaN()
				}
				matrix.Set(i, j, coeff, n)
				continue
			}
			coeff, n := pearson(frame.Columns[a], frame.Columns[b], minOverlap)
			matrix.Set(i, j, coeff, n)
		}
	}

	return matrix
}

// pearson returns the Pearson coefficient over cells that are actual in
// both columns, and the overlap size. NaN marks an undefined result.
func pearson(a, b []domain.Cell, minOverlap int) (float64, int) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var xs, ys []float64
	for i := 0; i < n; i++ {
		if a[i].State != domain.CellActual || b[i].State != domain.CellActual {
			continue
		}
		xs = append(xs, a[i].Value)
		ys = append(ys, b[i].Value)
	}

	count := len(xs)
	if count < minOverlap {
		return math.NaN(), count
	}

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(count)
	meanY /= float64(count)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return math.NaN(), count
	}

	return cov / math.Sqrt(varX*varY), count
}

func overlapSize(frame *domain.Frame, name string) int {
	count := 0
	for _, cell := range frame.Columns[name] {
		if cell.State == domain.CellActual {
			count++
		}
	}
	return count
}
