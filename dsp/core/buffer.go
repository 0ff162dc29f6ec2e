package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroRange sets buf[start..end] (inclusive) to 0. Bounds are clamped to
// the buffer; an empty or inverted range is a no-op.
func ZeroRange(buf []float64, start, end int) {
	if len(buf) == 0 {
		return
	}
	if start < 0 {
		start = 0
	}
	if end > len(buf)-1 {
		end = len(buf) - 1
	}
	for i := start; i <= end; i++ {
		buf[i] = 0
	}
}

// ArgMax returns the index and value of the maximum of buf. Ties resolve to
// the earliest index. Returns (-1, 0) for an empty buffer.
func ArgMax(buf []float64) (int, float64) {
	if len(buf) == 0 {
		return -1, 0
	}

	idx := 0
	peak := buf[0]
	for i := 1; i < len(buf); i++ {
		if buf[i] > peak {
			peak = buf[i]
			idx = i
		}
	}

	return idx, peak
}

// CountNonZero returns the number of non-zero values in buf.
func CountNonZero(buf []float64) int {
	n := 0
	for _, v := range buf {
		if v != 0 {
			n++
		}
	}
	return n
}
