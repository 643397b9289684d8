package rawunravel

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestXTransDemosaicFlatField(t *testing.T) {
	const w, h = 19, 15
	const v = 0.61
	mono := make([]float32, w*h)
	for i := range mono {
		mono[i] = v
	}
	r := make([]float32, w*h)
	g := make([]float32, w*h)
	b := make([]float32, w*h)
	if err := XTransDemosaic(mono, nil, nil, w, h, XTransStandard, r, g, b); err != nil {
		t.Fatalf("demosaic: %v", err)
	}
	checkPlaneNear(t, "R", r, v, 1e-5, w)
	checkPlaneNear(t, "G", g, v, 1e-5, w)
	checkPlaneNear(t, "B", b, v, 1e-5, w)
}

func TestXTransDemosaicConstantColorRoundTrip(t *testing.T) {
	const w, h = 24, 18
	mono := remosaic(w, h, XTransStandard.At, 10, 20, 30)
	r := make([]float32, w*h)
	g := make([]float32, w*h)
	b := make([]float32, w*h)
	if err := XTransDemosaic(mono, nil, nil, w, h, XTransStandard, r, g, b); err != nil {
		t.Fatalf("demosaic: %v", err)
	}
	checkPlaneNear(t, "R", r, 10, 1e-5, w)
	checkPlaneNear(t, "G", g, 20, 1e-5, w)
	checkPlaneNear(t, "B", b, 30, 1e-5, w)
}

func TestXTransDemosaicHorizontalRampInterior(t *testing.T) {
	const w, h = 30, 24
	mono := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mono[y*w+x] = float32(x)
		}
	}
	r := make([]float32, w*h)
	g := make([]float32, w*h)
	b := make([]float32, w*h)
	if err := XTransDemosaic(mono, nil, nil, w, h, XTransStandard, r, g, b); err != nil {
		t.Fatalf("demosaic: %v", err)
	}
	for y := xtransBorder; y < h-xtransBorder; y++ {
		for x := xtransBorder; x < w-xtransBorder; x++ {
			i := y*w + x
			if diff := math.Abs(float64(g[i]) - float64(x)); diff > 1e-3 {
				t.Fatalf("G[%d,%d] = %v, want %v", x, y, g[i], float64(x))
			}
		}
	}
}

func TestXTransDemosaicThreePlanesMatchSingle(t *testing.T) {
	const w, h = 18, 12
	mono := remosaic(w, h, XTransStandard.At, 0.1, 0.5, 0.9)

	// Channel-separated planes carrying the same samples at their own
	// CFA positions must fold to the identical virtual mosaic.
	p0 := make([]float32, w*h)
	p1 := make([]float32, w*h)
	p2 := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			switch XTransStandard.At(x, y) {
			case ChannelR:
				p0[i] = mono[i]
			case ChannelG:
				p1[i] = mono[i]
			case ChannelB:
				p2[i] = mono[i]
			}
		}
	}

	single := NewColorPlaneSet(w, h)
	if err := XTransDemosaic(mono, nil, nil, w, h, XTransStandard, single.R, single.G, single.B); err != nil {
		t.Fatalf("single-plane demosaic: %v", err)
	}
	multi := NewColorPlaneSet(w, h)
	if err := XTransDemosaic(p0, p1, p2, w, h, XTransStandard, multi.R, multi.G, multi.B); err != nil {
		t.Fatalf("three-plane demosaic: %v", err)
	}
	if diff := cmp.Diff(single, multi); diff != "" {
		t.Fatalf("plane modes disagree (-single +multi):\n%s", diff)
	}
}

func TestXTransDemosaicFailuresLeaveOutputUntouched(t *testing.T) {
	const w, h = 12, 12
	mono := make([]float32, w*h)
	extra := make([]float32, w*h)
	r := make([]float32, w*h)
	g := make([]float32, w*h)
	b := make([]float32, w*h)

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"nil first plane", func() error {
			return XTransDemosaic(nil, nil, nil, w, h, XTransStandard, r, g, b)
		}, ErrMissingInput},
		{"partial plane set", func() error {
			return XTransDemosaic(mono, extra, nil, w, h, XTransStandard, r, g, b)
		}, ErrMissingInput},
		{"zero width", func() error {
			return XTransDemosaic(mono, nil, nil, 0, h, XTransStandard, r, g, b)
		}, ErrInvalidDimensions},
		{"nil output", func() error {
			return XTransDemosaic(mono, nil, nil, w, h, XTransStandard, nil, g, b)
		}, ErrMissingInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fillSentinel(r, g, b)
			err := tc.run()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			checkSentinelUntouched(t, r, g, b)
		})
	}
}

func BenchmarkXTransDemosaic(b *testing.B) {
	const w, h = 510, 384
	mono := remosaic(w, h, XTransStandard.At, 0.2, 0.5, 0.8)
	r := make([]float32, w*h)
	g := make([]float32, w*h)
	bl := make([]float32, w*h)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := XTransDemosaic(mono, nil, nil, w, h, XTransStandard, r, g, bl); err != nil {
			b.Fatal(err)
		}
	}
}
