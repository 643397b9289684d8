package rawunravel

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func bayerSensorData(w, h int, flip int) *SensorData {
	pattern := BayerRGGB
	plane := NewMosaicPlane(w, h)
	copy(plane.Pix, remosaic(w, h, pattern.At, 0.1, 0.4, 0.7))
	return &SensorData{
		Sensor: SensorBayer,
		Bayer:  &pattern,
		Planes: []*MosaicPlane{plane},
		Flip:   flip,
	}
}

func xtransSensorData(w, h int, flip int) *SensorData {
	pattern := XTransStandard
	plane := NewMosaicPlane(w, h)
	copy(plane.Pix, remosaic(w, h, pattern.At, 0.2, 0.5, 0.8))
	return &SensorData{
		Sensor: SensorXTrans,
		XTrans: &pattern,
		Planes: []*MosaicPlane{plane},
		Flip:   flip,
	}
}

func TestDecodeBayer(t *testing.T) {
	dec := NewDecoder()
	r, err := dec.Decode(bayerSensorData(16, 12, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Width != 16 || r.Height != 12 {
		t.Fatalf("got %dx%d, want 16x12", r.Width, r.Height)
	}
	if r.Orientation != 1 {
		t.Fatalf("orientation %d, want canonical 1", r.Orientation)
	}
	checkPlaneNear(t, "R", r.R, 0.1, 1e-5, r.Width)
	checkPlaneNear(t, "G", r.G, 0.4, 1e-5, r.Width)
	checkPlaneNear(t, "B", r.B, 0.7, 1e-5, r.Width)
}

func TestDecodeXTrans(t *testing.T) {
	dec := NewDecoder()
	r, err := dec.Decode(xtransSensorData(18, 18, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	checkPlaneNear(t, "R", r.R, 0.2, 1e-5, r.Width)
	checkPlaneNear(t, "G", r.G, 0.5, 1e-5, r.Width)
	checkPlaneNear(t, "B", r.B, 0.8, 1e-5, r.Width)
}

func TestDecodeBakesOrientation(t *testing.T) {
	dec := NewDecoder()
	// Flip 6 is the common 90 CW case: output dimensions swap.
	r, err := dec.Decode(bayerSensorData(16, 12, 6))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Width != 12 || r.Height != 16 {
		t.Fatalf("got %dx%d, want 12x16 after 90 CW bake", r.Width, r.Height)
	}
	if r.Orientation != 1 {
		t.Fatalf("orientation %d, want 1", r.Orientation)
	}
}

func TestDecodeFailures(t *testing.T) {
	dec := NewDecoder()
	cases := []struct {
		name string
		sd   *SensorData
		want error
	}{
		{"nil data", nil, ErrMissingInput},
		{"no planes", &SensorData{Sensor: SensorBayer}, ErrMissingInput},
		{"unknown sensor", func() *SensorData {
			sd := bayerSensorData(8, 8, 0)
			sd.Sensor = SensorUnknown
			return sd
		}(), ErrUnsupportedGeometry},
		{"tiny plane", bayerSensorData(1, 8, 0), ErrInvalidDimensions},
		{"pattern missing", func() *SensorData {
			sd := bayerSensorData(8, 8, 0)
			sd.Bayer = nil
			return sd
		}(), ErrMissingInput},
		{"mismatched planes", func() *SensorData {
			sd := xtransSensorData(12, 12, 0)
			sd.Planes = append(sd.Planes, NewMosaicPlane(6, 6), NewMosaicPlane(12, 12))
			return sd
		}(), ErrInvalidDimensions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := dec.Decode(tc.sd)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if r != nil {
				t.Fatalf("failed decode must not return a raster")
			}
		})
	}
}

func TestDecodeConcurrentMatchesSequential(t *testing.T) {
	dec := NewDecoder()
	sdA := bayerSensorData(20, 16, 0)
	sdB := xtransSensorData(18, 18, 0)

	seqA, err := dec.Decode(bayerSensorData(20, 16, 0))
	if err != nil {
		t.Fatalf("sequential A: %v", err)
	}
	seqB, err := dec.Decode(xtransSensorData(18, 18, 0))
	if err != nil {
		t.Fatalf("sequential B: %v", err)
	}

	idA, chA := dec.Go(sdA, func(o *DecodeOptions) { o.JobID = "job-a" })
	idB, chB := dec.Go(sdB, func(o *DecodeOptions) { o.JobID = "job-b" })
	if idA != "job-a" || idB != "job-b" {
		t.Fatalf("job ids not honored: %q %q", idA, idB)
	}
	resA, resB := <-chA, <-chB
	if resA.Err != nil || resB.Err != nil {
		t.Fatalf("concurrent decode: %v %v", resA.Err, resB.Err)
	}
	if resA.State != StateDelivered || resB.State != StateDelivered {
		t.Fatalf("states %v %v, want delivered", resA.State, resB.State)
	}
	if diff := cmp.Diff(seqA, resA.Raster); diff != "" {
		t.Fatalf("job A differs from sequential (-seq +conc):\n%s", diff)
	}
	if diff := cmp.Diff(seqB, resB.Raster); diff != "" {
		t.Fatalf("job B differs from sequential (-seq +conc):\n%s", diff)
	}
}

func TestDecodeProgressPerJob(t *testing.T) {
	var mu sync.Mutex
	perJob := map[string][]string{}
	pr := NewProgressReporter(func(ev ProgressEvent) {
		mu.Lock()
		perJob[ev.JobID] = append(perJob[ev.JobID], ev.Phase+"/"+ev.Step)
		mu.Unlock()
	})
	dec := NewDecoder(func(o *DecoderOptions) { o.Progress = pr })

	_, chA := dec.Go(bayerSensorData(16, 12, 0), func(o *DecodeOptions) { o.JobID = "job-a" })
	_, chB := dec.Go(bayerSensorData(16, 12, 0), func(o *DecodeOptions) { o.JobID = "job-b" })
	<-chA
	<-chB
	pr.Close()

	want := []string{
		"acquire/planes",
		"demosaic/amaze",
		"demosaic/done",
		"orient/bake",
		"deliver/raster",
	}
	for _, id := range []string{"job-a", "job-b"} {
		if diff := cmp.Diff(want, perJob[id]); diff != "" {
			t.Fatalf("job %s phases (-want +got):\n%s", id, diff)
		}
	}
}

func TestDecodeGeneratesJobID(t *testing.T) {
	var mu sync.Mutex
	ids := map[string]bool{}
	pr := NewProgressReporter(func(ev ProgressEvent) {
		mu.Lock()
		ids[ev.JobID] = true
		mu.Unlock()
	})
	dec := NewDecoder(func(o *DecoderOptions) { o.Progress = pr })
	id, ch := dec.Go(bayerSensorData(8, 8, 0))
	<-ch
	pr.Close()
	if id == "" {
		t.Fatalf("empty generated job id")
	}
	if !ids[id] {
		t.Fatalf("progress events missing generated job id %q", id)
	}
}

func TestActiveSizeAndOrientationQueries(t *testing.T) {
	dec := NewDecoder()
	sd := bayerSensorData(32, 24, 5)
	w, h, err := dec.ActiveSize(sd)
	if err != nil {
		t.Fatalf("active size: %v", err)
	}
	if w != 32 || h != 24 {
		t.Fatalf("got %dx%d, want 32x24", w, h)
	}
	if got := dec.OrientationOf(sd); got != 8 {
		t.Fatalf("orientation %d, want 8 for flip 5", got)
	}
	if got := dec.OrientationOf(nil); got != 1 {
		t.Fatalf("nil sensor data must report identity, got %d", got)
	}
	sd.Flip = 99
	if got := dec.OrientationOf(sd); got != 1 {
		t.Fatalf("flip 99 must fail open to 1, got %d", got)
	}
}

func TestPreviewSuperpixel(t *testing.T) {
	dec := NewDecoder()
	r, err := dec.PreviewSuperpixel(bayerSensorData(16, 12, 0))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if r.Width != 8 || r.Height != 6 {
		t.Fatalf("got %dx%d, want 8x6 superpixels", r.Width, r.Height)
	}
	checkPlaneNear(t, "R", r.R, 0.1, 1e-5, r.Width)
	checkPlaneNear(t, "G", r.G, 0.4, 1e-5, r.Width)
	checkPlaneNear(t, "B", r.B, 0.7, 1e-5, r.Width)
}

func TestPreviewSuperpixelXTrans(t *testing.T) {
	dec := NewDecoder()
	r, err := dec.PreviewSuperpixel(xtransSensorData(18, 18, 0))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if r.Width != 6 || r.Height != 6 {
		t.Fatalf("got %dx%d, want 6x6 superpixels", r.Width, r.Height)
	}
	checkPlaneNear(t, "G", r.G, 0.5, 1e-5, r.Width)
}

func TestPreviewSuperpixelResize(t *testing.T) {
	dec := NewDecoder()
	r, err := dec.PreviewSuperpixel(bayerSensorData(16, 12, 0), func(o *PreviewOptions) {
		o.TargetWidth = 16
		o.TargetHeight = 12
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if r.Width != 16 || r.Height != 12 {
		t.Fatalf("got %dx%d, want 16x12 after upscale", r.Width, r.Height)
	}
	// 16-bit quantization through the resampler costs some precision.
	checkPlaneNear(t, "G", r.G, 0.4, 1e-3, r.Width)
}

func TestPreviewSuperpixelBakesOrientation(t *testing.T) {
	dec := NewDecoder()
	r, err := dec.PreviewSuperpixel(bayerSensorData(16, 12, 6))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if r.Width != 6 || r.Height != 8 {
		t.Fatalf("got %dx%d, want 6x8 after 90 CW bake", r.Width, r.Height)
	}
}
