package rawunravel

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// Superpixel fast preview: one output pixel per CFA cell by plain channel
// averaging, no directional interpolation. This is an explicit degraded
// path for latency-sensitive preview, never a fallback for the full
// pipeline.

// PreviewOptions configures the superpixel preview path.
type PreviewOptions struct {
	// JobID identifies the job in progress events.
	JobID string
	// TargetWidth/TargetHeight scale the preview after demosaicing, via
	// bilinear resampling. Zero keeps the native superpixel size
	// (width/2 x height/2 for Bayer, width/3 x height/3 for X-Trans).
	TargetWidth  int
	TargetHeight int
}

// PreviewSuperpixel decodes a degraded preview raster: per-cell channel
// averaging instead of full demosaicing, then orientation bake. Shares no
// interpolation code with the full engines.
func (d *Decoder) PreviewSuperpixel(sd *SensorData, opts ...func(o *PreviewOptions)) (*Raster, error) {
	opt := PreviewOptions{}
	for _, apply := range opts {
		apply(&opt)
	}
	j := d.newJob(opt.JobID)

	if err := sd.Validate(); err != nil {
		return nil, j.fail("preview", err)
	}
	mono, chAt, block, err := virtualMosaic(sd)
	if err != nil {
		return nil, j.fail("preview", err)
	}
	w, h := sd.Size()
	j.advance(StatePlaneAcquired, "preview", "planes", 1, 1)

	outW := maxInt(w/block, 1)
	outH := maxInt(h/block, 1)
	ps := NewColorPlaneSet(outW, outH)
	out := [3][]float32{ChannelR: ps.R, ChannelG: ps.G, ChannelB: ps.B}

	for by := 0; by < outH; by++ {
		for bx := 0; bx < outW; bx++ {
			var sum [3]float32
			var cnt [3]float32
			var all, alln float32
			for dy := 0; dy < block; dy++ {
				for dx := 0; dx < block; dx++ {
					x := minInt(bx*block+dx, w-1)
					y := minInt(by*block+dy, h-1)
					v := mono[y*w+x]
					c := chAt(x, y)
					sum[c] += v
					cnt[c]++
					all += v
					alln++
				}
			}
			i := by*outW + bx
			for c := 0; c < 3; c++ {
				if cnt[c] > 0 {
					out[c][i] = sum[c] / cnt[c]
				} else {
					out[c][i] = all / alln
				}
			}
		}
	}

	exif := MapLibRawFlipToEXIF(sd.Flip)
	ps = ApplyOrientation(ps, exif)
	j.advance(StateOrientationNormalized, "preview", "orient", 1, 1)

	if opt.TargetWidth > 0 && opt.TargetHeight > 0 {
		ps = resizePlanes(ps, opt.TargetWidth, opt.TargetHeight)
	}

	r := &Raster{
		Width:       ps.Width,
		Height:      ps.Height,
		R:           ps.R,
		G:           ps.G,
		B:           ps.B,
		Orientation: exifIdentity,
	}
	j.advance(StateDelivered, "preview", "raster", 1, 1)
	return r, nil
}

// virtualMosaic folds the sensor planes into one mosaic and returns the
// channel lookup and preview block size for the sensor geometry.
func virtualMosaic(sd *SensorData) ([]float32, channelAtFunc, int, error) {
	w, h := sd.Size()
	switch sd.Sensor {
	case SensorBayer:
		return sd.Planes[0].Pix, sd.Bayer.At, defaultPreviewBlockBayer, nil
	case SensorXTrans:
		chAt := sd.XTrans.At
		switch len(sd.Planes) {
		case 1:
			return sd.Planes[0].Pix, chAt, defaultPreviewBlockXTrans, nil
		case 3:
			src := [3][]float32{sd.Planes[0].Pix, sd.Planes[1].Pix, sd.Planes[2].Pix}
			mono := make([]float32, w*h)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					i := y*w + x
					mono[i] = src[chAt(x, y)][i]
				}
			}
			return mono, chAt, defaultPreviewBlockXTrans, nil
		default:
			return nil, nil, 0, fmt.Errorf("x-trans wants 1 or 3 planes, got %d: %w", len(sd.Planes), ErrMissingInput)
		}
	default:
		return nil, nil, 0, ErrUnsupportedGeometry
	}
}

// resizePlanes resamples linear planes to the target size through a 16-bit
// intermediate. Preview-only: the round trip quantizes to 16 bits.
func resizePlanes(ps *ColorPlaneSet, width, height int) *ColorPlaneSet {
	img := image.NewNRGBA64(image.Rect(0, 0, ps.Width, ps.Height))
	for y := 0; y < ps.Height; y++ {
		for x := 0; x < ps.Width; x++ {
			i := y*ps.Width + x
			o := y*img.Stride + x*8
			putUint16(img.Pix[o:], uint16(clamp01(ps.R[i])*65535+0.5))
			putUint16(img.Pix[o+2:], uint16(clamp01(ps.G[i])*65535+0.5))
			putUint16(img.Pix[o+4:], uint16(clamp01(ps.B[i])*65535+0.5))
			putUint16(img.Pix[o+6:], 65535)
		}
	}
	scaled := resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	out := NewColorPlaneSet(width, height)
	b := scaled.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, bl, _ := scaled.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*width + x
			out.R[i] = float32(r) / 65535.0
			out.G[i] = float32(g) / 65535.0
			out.B[i] = float32(bl) / 65535.0
		}
	}
	return out
}

func putUint16(p []byte, v uint16) {
	p[0] = byte(v >> 8)
	p[1] = byte(v)
}
