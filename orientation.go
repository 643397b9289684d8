package rawunravel

// Orientation handling: LibRaw reports sizes.flip (0-7), display wants
// EXIF orientation (1-8) baked into pixel data. The mapping is total and
// fail-open: anything out of range means identity, never an error, since
// a possibly-misrotated image beats no image at all.

// libRawFlipToEXIF maps LibRaw sizes.flip values to EXIF orientation.
// Flip bits: 1 mirrors columns, 2 mirrors rows, 4 transposes; 5 is the
// common 90 CCW case (EXIF 8) and 6 the 90 CW case (EXIF 6).
var libRawFlipToEXIF = [8]int{1, 2, 4, 3, 5, 8, 6, 7}

// MapLibRawFlipToEXIF maps a LibRaw flip code (0-7) to an EXIF orientation
// (1-8). Out-of-range inputs map to 1 (identity).
func MapLibRawFlipToEXIF(flip int) int {
	if flip < 0 || flip >= len(libRawFlipToEXIF) {
		return exifIdentity
	}
	return libRawFlipToEXIF[flip]
}

// ApplyOrientation bakes an EXIF orientation (1-8) into the plane set and
// returns the result. Orientation 1 and any out-of-range code return the
// input unchanged. Codes 5-8 swap width and height.
func ApplyOrientation(ps *ColorPlaneSet, exif int) *ColorPlaneSet {
	if ps == nil || exif <= exifIdentity || exif > exifMax {
		return ps
	}
	srcW, srcH := ps.Width, ps.Height
	dstW, dstH := srcW, srcH
	if exif >= 5 {
		dstW, dstH = srcH, srcW
	}
	out := NewColorPlaneSet(dstW, dstH)
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			sx, sy := sourceCoord(exif, x, y, srcW, srcH)
			si := sy*srcW + sx
			di := y*dstW + x
			out.R[di] = ps.R[si]
			out.G[di] = ps.G[si]
			out.B[di] = ps.B[si]
		}
	}
	return out
}

// sourceCoord returns the source pixel that lands at destination (x, y)
// for a given EXIF orientation.
func sourceCoord(exif, x, y, srcW, srcH int) (sx, sy int) {
	switch exif {
	case 2: // mirror horizontal
		return srcW - 1 - x, y
	case 3: // rotate 180
		return srcW - 1 - x, srcH - 1 - y
	case 4: // mirror vertical
		return x, srcH - 1 - y
	case 5: // transpose
		return y, x
	case 6: // rotate 90 CW
		return y, srcH - 1 - x
	case 7: // transverse
		return srcW - 1 - y, srcH - 1 - x
	case 8: // rotate 270 CW
		return srcW - 1 - y, x
	}
	return x, y
}
