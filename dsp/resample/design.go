package resample

import (
	"errors"
	"math"
)

// designLowpass builds a Kaiser-windowed sinc lowpass at the upsampled
// rate. The filter has an odd length so its delay is a whole sample, and
// its taps sum to up so the interpolated signal keeps unit gain.
func designLowpass(up, down int, p Profile) ([]float64, error) {
	if p.TapsPerPhase <= 0 {
		return nil, errors.New("resample: taps per phase must be > 0")
	}

	// Cutoff relative to the upsampled rate.
	fc := 0.5 / float64(max(up, down)) * p.CutoffScale

	n := p.TapsPerPhase*up + 1
	center := n / 2
	taps := make([]float64, n)

	var sum float64

	for i := range taps {
		x := float64(i - center)
		taps[i] = 2 * fc * sinc(2*fc*x) * kaiser(i, n, p.KaiserBeta)
		sum += taps[i]
	}

	if sum == 0 {
		return nil, errors.New("resample: designed zero-sum filter")
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	return taps, nil
}

// approximateRatio returns the continued-fraction approximation num/den of
// v with den <= maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if !(v > 0) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v

	for {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)

		q2 := a*q1 + q0
		if q2 > float64(maxDen) {
			break
		}

		p0, p1 = p1, a*p1+p0
		q0, q1 = q1, q2
	}

	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	return max(a, 1)
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the modified Bessel function of order 0 by its
// power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4

	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term

		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
