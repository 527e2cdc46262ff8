package command

// Crossed returns every threshold t with prev < t <= next, in ascending
// order. Thresholds must already be sorted ascending. A mutation that
// jumps past several thresholds yields all of them; decreases yield
// nothing.
func Crossed(thresholds []int, prev, next int) []int {
	if next <= prev {
		return nil
	}
	var out []int
	for _, t := range thresholds {
		if t <= prev {
			continue
		}
		if t > next {
			break
		}
		out = append(out, t)
	}
	return out
}
