package biodatasets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Array is a dense, row-major 2-D block of table cells.
//
// Cells are kept as the strings found in the CSV so that non-numeric
// columns (sequences, identifiers) survive; Dense converts numeric
// selections to a gonum matrix.
type Array struct {
	rows    int
	cols    int
	columns []string
	cells   []string
}

func newArray(rows int, columns []string, cells []string) *Array {
	return &Array{
		rows:    rows,
		cols:    len(columns),
		columns: append([]string(nil), columns...),
		cells:   cells,
	}
}

// Shape returns the number of rows and columns.
func (a *Array) Shape() (rows, cols int) {
	return a.rows, a.cols
}

// Columns returns the column names in selection order.
func (a *Array) Columns() []string {
	return append([]string(nil), a.columns...)
}

// At returns the cell at row i, column j.
func (a *Array) At(i, j int) string {
	if i < 0 || i >= a.rows || j < 0 || j >= a.cols {
		panic(fmt.Sprintf("biodatasets: index (%d, %d) out of range for shape (%d, %d)", i, j, a.rows, a.cols))
	}
	return a.cells[i*a.cols+j]
}

// Row returns a copy of row i.
func (a *Array) Row(i int) []string {
	if i < 0 || i >= a.rows {
		panic(fmt.Sprintf("biodatasets: row %d out of range for %d rows", i, a.rows))
	}
	return append([]string(nil), a.cells[i*a.cols:(i+1)*a.cols]...)
}

// Column returns a copy of column j.
func (a *Array) Column(j int) []string {
	if j < 0 || j >= a.cols {
		panic(fmt.Sprintf("biodatasets: column %d out of range for %d columns", j, a.cols))
	}
	out := make([]string, a.rows)
	for i := range out {
		out[i] = a.cells[i*a.cols+j]
	}
	return out
}

// Dense parses every cell as float64. Empty cells and the usual textual
// missing markers (NaN, NA, null) become NaN.
func (a *Array) Dense() (*mat.Dense, error) {
	if a.rows == 0 || a.cols == 0 {
		return new(mat.Dense), nil
	}

	data := make([]float64, len(a.cells))
	for k, cell := range a.cells {
		v, err := parseFloat(cell)
		if err != nil {
			return nil, fmt.Errorf("biodatasets: row %d column %q: %w", k/a.cols, a.columns[k%a.cols], err)
		}
		data[k] = v
	}
	return mat.NewDense(a.rows, a.cols, data), nil
}

func parseFloat(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null", "none":
		return math.NaN(), nil
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
