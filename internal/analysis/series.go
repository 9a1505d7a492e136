package analysis

import (
	"errors"
	"fmt"
)

var ErrUnknownColumn = errors.New("analysis: unknown column")

// ColumnSeries extracts the named column from rows laid out as in
// storage.LoadStates: header[0] is the time column, which rows omit.
func ColumnSeries(header []string, rows [][]float64, name string) ([]float64, error) {
	idx := -1
	for i, h := range header {
		if h == name {
			idx = i - 1
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	series := make([]float64, 0, len(rows))
	for _, row := range rows {
		if idx < len(row) {
			series = append(series, row[idx])
		}
	}
	return series, nil
}

// Apexes returns the indices of local maxima. A plateau counts once, at its
// first sample.
func Apexes(series []float64) []int {
	var out []int
	for i := 1; i < len(series)-1; i++ {
		if series[i] <= series[i-1] {
			continue
		}
		j := i
		for j+1 < len(series) && series[j+1] == series[i] {
			j++
		}
		if j+1 < len(series) && series[j+1] < series[i] {
			out = append(out, i)
		}
		i = j
	}
	return out
}
