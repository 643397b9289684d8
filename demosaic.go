package rawunravel

// Shared plumbing for the two demosaic engines: input validation and the
// reduced-neighborhood fallback used inside the border bands, where the
// directional schemes would run out of neighbors.

// channelAtFunc reports the CFA channel at a pixel coordinate.
type channelAtFunc func(x, y int) Channel

func validateEngineArgs(width, height int, mono []float32, outR, outG, outB []float32) error {
	if width < minDemosaicSize || height < minDemosaicSize {
		return ErrInvalidDimensions
	}
	n := width * height
	if mono == nil || len(mono) < n {
		return ErrMissingInput
	}
	if outR == nil || outG == nil || outB == nil {
		return ErrMissingInput
	}
	if len(outR) < n || len(outG) < n || len(outB) < n {
		return ErrMissingInput
	}
	return nil
}

// inBorderBand reports whether (x, y) lies within band pixels of any edge.
func inBorderBand(x, y, width, height, band int) bool {
	return x < band || y < band || x >= width-band || y >= height-band
}

// fillBorderBand populates every missing channel of every pixel in the
// border band by averaging the nearest in-bounds same-channel mosaic
// samples, weighted by inverse Manhattan distance. The search radius grows
// until at least one sample is found; if the channel does not occur
// anywhere in bounds the pixel's own mosaic value is used.
func fillBorderBand(mono []float32, width, height int, chAt channelAtFunc, out *[3][]float32, band, radius int) {
	maxRadius := maxInt(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !inBorderBand(x, y, width, height, band) {
				continue
			}
			i := y*width + x
			native := chAt(x, y)
			for c := ChannelR; c <= ChannelB; c++ {
				if c == native {
					continue
				}
				out[c][i] = reducedNeighborhood(mono, width, height, chAt, x, y, c, radius, maxRadius)
			}
		}
	}
}

// reducedNeighborhood averages in-bounds samples of channel want around
// (x, y). Samples within the initial radius are combined; if none exist
// the window expands ring by ring until a sample is found.
func reducedNeighborhood(mono []float32, width, height int, chAt channelAtFunc, x, y int, want Channel, radius, maxRadius int) float32 {
	var sum, wsum float32
	scanRing := func(r int) {
		x0, x1 := maxInt(x-r, 0), minInt(x+r, width-1)
		y0, y1 := maxInt(y-r, 0), minInt(y+r, height-1)
		for ny := y0; ny <= y1; ny++ {
			for nx := x0; nx <= x1; nx++ {
				if maxInt(absInt(nx-x), absInt(ny-y)) != r {
					continue
				}
				if chAt(nx, ny) != want {
					continue
				}
				w := 1.0 / float32(1+absInt(nx-x)+absInt(ny-y))
				sum += mono[ny*width+nx] * w
				wsum += w
			}
		}
	}
	for r := 1; r <= radius; r++ {
		scanRing(r)
	}
	for r := radius + 1; wsum == 0 && r <= maxRadius; r++ {
		scanRing(r)
	}
	if wsum == 0 {
		return mono[y*width+x]
	}
	return sum / wsum
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
