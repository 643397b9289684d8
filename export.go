package rawunravel

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/tiff"
)

// Raster export: the pipeline output is linear light; display surfaces
// want 8-bit sRGB-encoded or 16-bit data. Values are clamped to [0, 1]
// here, never inside the engines.

// ToNRGBA converts the raster to an 8-bit image. With encodeSRGB the sRGB
// OETF is applied, which is what display consumers want; without it the
// linear values are quantized directly.
func (r *Raster) ToNRGBA(encodeSRGB bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := y*r.Width + x
			o := y*img.Stride + x*4
			img.Pix[o] = quantize8(r.R[i], encodeSRGB)
			img.Pix[o+1] = quantize8(r.G[i], encodeSRGB)
			img.Pix[o+2] = quantize8(r.B[i], encodeSRGB)
			img.Pix[o+3] = 0xFF
		}
	}
	return img
}

// ToNRGBA64 converts the raster to a 16-bit image, preserving the engines'
// bit depth headroom. With encodeSRGB the sRGB OETF is applied.
func (r *Raster) ToNRGBA64(encodeSRGB bool) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := y*r.Width + x
			o := y*img.Stride + x*8
			putUint16(img.Pix[o:], quantize16(r.R[i], encodeSRGB))
			putUint16(img.Pix[o+2:], quantize16(r.G[i], encodeSRGB))
			putUint16(img.Pix[o+4:], quantize16(r.B[i], encodeSRGB))
			putUint16(img.Pix[o+6:], 0xFFFF)
		}
	}
	return img
}

// EncodeTIFF writes the image as a deflate-compressed TIFF.
func EncodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// EncodePNG writes the image as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func quantize8(v float32, encodeSRGB bool) uint8 {
	v = clamp01(v)
	if encodeSRGB {
		v = srgbOetf(v)
	}
	return uint8(clamp01(v)*255 + 0.5)
}

func quantize16(v float32, encodeSRGB bool) uint16 {
	v = clamp01(v)
	if encodeSRGB {
		v = srgbOetf(v)
	}
	return uint16(clamp01(v)*65535 + 0.5)
}
