package domain

import (
	"encoding/json"
	"math"
)

// CorrelationMatrix maps every pair of indicators to a Pearson coefficient
// in [-1, 1]. Cells are NaN when the pair had fewer than MinOverlap
// overlapping actual observations; NaN serializes as JSON null so the
// presentation layer can render "insufficient data" instead of a number.
// The matrix is symmetric by construction.
type CorrelationMatrix struct {
	Order      []string    `json:"order"`
	Coeffs     [][]float64 `json:"coefficients"`
	Overlaps   [][]int     `json:"overlaps"`
	MinOverlap int         `json:"min_overlap"`
}

// NewCorrelationMatrix allocates an n×n matrix for the given indicator
// order with every coefficient undefined.
func NewCorrelationMatrix(order []string, minOverlap int) *CorrelationMatrix {
	n := len(order)
	coeffs := make([][]float64, n)
	overlaps := make([][]int, n)
	for i := range coeffs {
		coeffs[i] = make([]float64, n)
		overlaps[i] = make([]int, n)
		for j := range coeffs[i] {
			coeffs[i][j] = math.NaN()
		}
	}
	return &CorrelationMatrix{
		Order:      order,
		Coeffs:     coeffs,
		Overlaps:   overlaps,
		MinOverlap: minOverlap,
	}
}

// Set records a coefficient for a pair of positions, mirroring it across
// the diagonal.
func (m *CorrelationMatrix) Set(i, j int, coeff float64, overlap int) {
	m.Coeffs[i][j] = coeff
	m.Coeffs[j][i] = coeff
	m.Overlaps[i][j] = overlap
	m.Overlaps[j][i] = overlap
}

// At returns the coefficient for a pair of indicator IDs. The second
// return value is false when the pair is unknown or the coefficient is
// undefined.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i := m.index(a)
	j := m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	c := m.Coeffs[i][j]
	if math.IsNaN(c) {
		return 0, false
	}
	return c, true
}

func (m *CorrelationMatrix) index(id string) int {
	for i, o := range m.Order {
		if o == id {
			return i
		}
	}
	return -1
}

// MarshalJSON renders undefined coefficients as null.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	coeffs := make([][]*float64, len(m.Coeffs))
	for i, row := range m.Coeffs {
		coeffs[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				coeffs[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Order      []string     `json:"order"`
		Coeffs     [][]*float64 `json:"coefficients"`
		Overlaps   [][]int      `json:"overlaps"`
		MinOverlap int          `json:"min_overlap"`
	}{m.Order, coeffs, m.Overlaps, m.MinOverlap})
}
