package analysis

// SweepPoint holds the distinct values a run produced for one parameter.
type SweepPoint struct {
	Param  float64
	Values []float64
}

// Sweep calls run for steps evenly spaced parameters in [paramMin, paramMax]
// and records the distinct values (to 1e-3) it returns, e.g. bounce apexes
// as restitution varies.
func Sweep(paramMin, paramMax float64, steps int, run func(param float64) ([]float64, error)) ([]SweepPoint, error) {
	if steps <= 1 {
		steps = 2
	}
	step := (paramMax - paramMin) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		param := paramMin + float64(i)*step
		raw, err := run(param)
		if err != nil {
			return nil, err
		}

		values := make([]float64, 0, len(raw))
		seen := make(map[int]bool)
		for _, v := range raw {
			key := int(v * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, v)
			}
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}
	return results, nil
}

// SweepToASCII draws parameter along x and recorded values along y.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal, maxVal = min(minVal, v), max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := blankCanvas(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}
	return canvasString(canvas)
}
