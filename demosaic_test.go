package rawunravel

import (
	"math"
	"testing"
)

// remosaic builds a mosaic plane from a flat RGB image: each position
// carries the sample of the channel its CFA cell assigns to it.
func remosaic(w, h int, chAt channelAtFunc, r, g, b float32) []float32 {
	rgb := [3]float32{r, g, b}
	mono := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mono[y*w+x] = rgb[chAt(x, y)]
		}
	}
	return mono
}

func checkPlaneNear(t *testing.T, name string, plane []float32, want float32, tol float64, w int) {
	t.Helper()
	for i, v := range plane {
		if math.Abs(float64(v-want)) > tol {
			t.Fatalf("%s[%d,%d] = %v, want %v (tol %v)", name, i%w, i/w, v, want, tol)
		}
	}
}

func fillSentinel(planes ...[]float32) {
	for _, p := range planes {
		for i := range p {
			p[i] = -7
		}
	}
}

func checkSentinelUntouched(t *testing.T, planes ...[]float32) {
	t.Helper()
	for pi, p := range planes {
		for i, v := range p {
			if v != -7 {
				t.Fatalf("output plane %d written at %d on failure (value %v)", pi, i, v)
			}
		}
	}
}
