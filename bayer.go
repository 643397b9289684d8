package rawunravel

// AMAZE-class Bayer demosaic: directional, edge-adaptive interpolation.
// Green is reconstructed first with Hamilton-Adams gradient selection;
// red and blue follow as color differences against green so chroma edges
// stay coherent with luminance edges.

// AmazeDemosaic reconstructs full-resolution R, G and B planes from a
// single Bayer-mosaiced plane. Output buffers must be pre-allocated to
// width*height by the caller. On failure no output buffer is written.
func AmazeDemosaic(mono []float32, width, height int, pattern BayerPattern, outR, outG, outB []float32) error {
	if err := pattern.Validate(); err != nil {
		return err
	}
	if err := validateEngineArgs(width, height, mono, outR, outG, outB); err != nil {
		return err
	}

	w := width
	out := [3][]float32{ChannelR: outR, ChannelG: outG, ChannelB: outB}
	chAt := pattern.At

	// Native samples.
	for y := 0; y < height; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			out[chAt(x, y)][i] = mono[i]
		}
	}

	// Green at red/blue sites, interior only. Horizontal and vertical
	// estimates carry a Laplacian correction from the same-channel axis;
	// the lower-gradient direction wins, near-equal gradients blend.
	for y := bayerBorder; y < height-bayerBorder; y++ {
		for x := bayerBorder; x < w-bayerBorder; x++ {
			if chAt(x, y) == ChannelG {
				continue
			}
			i := y*w + x
			gradH := absf(mono[i-1]-mono[i+1]) + absf(2*mono[i]-mono[i-2]-mono[i+2])
			gradV := absf(mono[i-w]-mono[i+w]) + absf(2*mono[i]-mono[i-2*w]-mono[i+2*w])
			estH := (mono[i-1]+mono[i+1])*0.5 + (2*mono[i]-mono[i-2]-mono[i+2])*0.25
			estV := (mono[i-w]+mono[i+w])*0.5 + (2*mono[i]-mono[i-2*w]-mono[i+2*w])*0.25
			outG[i] = blendDirectional(estH, estV, gradH, gradV)
		}
	}

	// Border band, all channels: reduced-neighborhood averaging. Runs
	// before the chroma passes so interior pixels may reference green at
	// band neighbors.
	fillBorderBand(mono, w, height, chAt, &out, bayerBorder, bayerBorder)

	// Red/blue at the opposite chroma site: color differences along the
	// lower-gradient diagonal.
	for y := bayerBorder; y < height-bayerBorder; y++ {
		for x := bayerBorder; x < w-bayerBorder; x++ {
			c := chAt(x, y)
			if c == ChannelG {
				continue
			}
			i := y*w + x
			o := ChannelR + ChannelB - c
			cdNE := ((mono[i-w+1] - outG[i-w+1]) + (mono[i+w-1] - outG[i+w-1])) * 0.5
			cdNW := ((mono[i-w-1] - outG[i-w-1]) + (mono[i+w+1] - outG[i+w+1])) * 0.5
			gradNE := absf((mono[i-w+1] - outG[i-w+1]) - (mono[i+w-1] - outG[i+w-1]))
			gradNW := absf((mono[i-w-1] - outG[i-w-1]) - (mono[i+w+1] - outG[i+w+1]))
			out[o][i] = outG[i] + blendDirectional(cdNE, cdNW, gradNE, gradNW)
		}
	}

	// Red/blue at green sites: one chroma lives on the row, the other on
	// the column.
	for y := bayerBorder; y < height-bayerBorder; y++ {
		for x := bayerBorder; x < w-bayerBorder; x++ {
			if chAt(x, y) != ChannelG {
				continue
			}
			i := y*w + x
			hc := chAt(x-1, y)
			vc := chAt(x, y-1)
			out[hc][i] = outG[i] + ((mono[i-1]-outG[i-1])+(mono[i+1]-outG[i+1]))*0.5
			out[vc][i] = outG[i] + ((mono[i-w]-outG[i-w])+(mono[i+w]-outG[i+w]))*0.5
		}
	}

	return nil
}

// blendDirectional picks the estimate whose gradient is clearly lower, or
// blends both weighted by inverse gradient magnitude when neither
// direction dominates.
func blendDirectional(estA, estB, gradA, gradB float32) float32 {
	switch {
	case gradB > gradA*directionBias:
		return estA
	case gradA > gradB*directionBias:
		return estB
	default:
		wA := 1.0 / (gradEps + gradA)
		wB := 1.0 / (gradEps + gradB)
		return (estA*wA + estB*wB) / (wA + wB)
	}
}
