package rawunravel

import (
	"fmt"
	"io"

	"golang.org/x/image/tiff"
)

// TIFF is the reference carrier for mosaic planes at the container
// boundary: manufacturer container parsing stays external, but the CLI and
// tests need a concrete way to feed a mosaic in.

// ReadOptions configures ReadMosaicTIFF.
type ReadOptions struct {
	// SRGBEncoded marks the carrier samples as sRGB-encoded. They are
	// linearized through the inverse OETF on read, since the engines
	// expect linear light.
	SRGBEncoded bool
}

// ReadMosaicTIFF decodes a TIFF into a single mosaic plane normalized to
// [0, 1]. Mosaics are expected as gray or gray16 images; for color TIFFs
// the first sample is taken.
func ReadMosaicTIFF(r io.Reader, opts ...func(o *ReadOptions)) (*MosaicPlane, error) {
	opt := ReadOptions{}
	for _, apply := range opts {
		apply(&opt)
	}
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContainerRead, err)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrContainerRead)
	}
	p := NewMosaicPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			s := float32(v) / 65535.0
			if opt.SRGBEncoded {
				s = srgbInvOetf(s)
			}
			p.Pix[y*w+x] = s
		}
	}
	return p, nil
}

// NormalizePlane converts raw sensor counts into a normalized mosaic plane
// using the container-reported black and white levels. Counts at or below
// black map to 0, at or above white to 1.
func NormalizePlane(raw []uint16, width, height int, black, white uint16) (*MosaicPlane, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if raw == nil || len(raw) < width*height {
		return nil, ErrMissingInput
	}
	if white <= black {
		return nil, fmt.Errorf("%w: white level %d not above black level %d", ErrContainerRead, white, black)
	}
	scale := 1.0 / float32(white-black)
	p := NewMosaicPlane(width, height)
	for i := 0; i < width*height; i++ {
		v := raw[i]
		switch {
		case v <= black:
			p.Pix[i] = 0
		case v >= white:
			p.Pix[i] = 1
		default:
			p.Pix[i] = float32(v-black) * scale
		}
	}
	return p, nil
}
