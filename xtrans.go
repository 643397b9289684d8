package rawunravel

// X-Trans demosaic. The 6x6 pattern has a dense but irregular green layout
// and isolated red/blue samples, so horizontal/vertical gradients alone
// are unreliable: green is reconstructed over four candidate axes
// (orthogonal and diagonal), and red/blue follow the nearest same-channel
// samples along eight directions as color differences against green.

// xtransAxes are the candidate interpolation axes for green
// reconstruction, expressed as unit steps.
var xtransAxes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// xtransDirs are the eight search directions for red/blue chroma
// reconstruction.
var xtransDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, -1}, {1, -1}, {-1, 1},
}

// XTransDemosaic reconstructs full-resolution R, G and B planes from up to
// three co-registered X-Trans mosaiced planes. With p1 and p2 nil, p0
// supplies every sample; otherwise plane k supplies the samples of channel
// k and all three planes are required. Output buffers must be
// pre-allocated to width*height. On failure no output buffer is written.
func XTransDemosaic(p0, p1, p2 []float32, width, height int, pattern XTransPattern, outR, outG, outB []float32) error {
	if err := pattern.Validate(); err != nil {
		return err
	}
	if err := validateEngineArgs(width, height, p0, outR, outG, outB); err != nil {
		return err
	}
	n := width * height
	multiPlane := p1 != nil || p2 != nil
	if multiPlane {
		if p1 == nil || p2 == nil || len(p1) < n || len(p2) < n {
			return ErrMissingInput
		}
	}

	w := width
	chAt := pattern.At

	// Fold the input planes into one virtual mosaic: each position reads
	// the plane that carries its CFA channel.
	mono := p0
	if multiPlane {
		src := [3][]float32{ChannelR: p0, ChannelG: p1, ChannelB: p2}
		mono = make([]float32, n)
		for y := 0; y < height; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				mono[i] = src[chAt(x, y)][i]
			}
		}
	}

	out := [3][]float32{ChannelR: outR, ChannelG: outG, ChannelB: outB}

	// Native samples.
	for y := 0; y < height; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			out[chAt(x, y)][i] = mono[i]
		}
	}

	// Green at red/blue sites, interior only.
	for y := xtransBorder; y < height-xtransBorder; y++ {
		for x := xtransBorder; x < w-xtransBorder; x++ {
			if chAt(x, y) == ChannelG {
				continue
			}
			outG[y*w+x] = xtransGreenAt(mono, w, height, chAt, x, y)
		}
	}

	// Border band, all channels.
	fillBorderBand(mono, w, height, chAt, &out, xtransBorder, xtransBorder)

	// Red and blue everywhere else, interior only: chroma against green
	// from the nearest same-channel samples along eight directions.
	for y := xtransBorder; y < height-xtransBorder; y++ {
		for x := xtransBorder; x < w-xtransBorder; x++ {
			native := chAt(x, y)
			i := y*w + x
			for c := ChannelR; c <= ChannelB; c++ {
				if c == native || c == ChannelG {
					continue
				}
				out[c][i] = outG[i] + xtransChromaAt(mono, outG, w, height, chAt, x, y, c)
			}
		}
	}

	return nil
}

// xtransGreenAt interpolates green at a non-green interior position. Each
// axis contributes the mean of its green samples within two steps,
// weighted by inverse gradient across the axis. Axes with green on both
// sides are preferred; one-sided axes only count when no axis straddles
// the pixel.
func xtransGreenAt(mono []float32, w, h int, chAt channelAtFunc, x, y int) float32 {
	type axisEst struct {
		est      float32
		grad     float32
		twoSided bool
	}
	var axes [4]axisEst
	found := 0
	twoSided := 0
	i := y*w + x
	for _, axis := range xtransAxes {
		step := axis[1]*w + axis[0]

		var sum, cnt float32
		var minus, plus float32
		var hasMinus, hasPlus bool
		var lo, hi float32
		first := true
		for _, t := range [4]int{-2, -1, 1, 2} {
			nx, ny := x+axis[0]*t, y+axis[1]*t
			if chAt(nx, ny) != ChannelG {
				continue
			}
			v := mono[i+step*t]
			dw := 1.0 / float32(absInt(t))
			sum += v * dw
			cnt += dw
			if t < 0 && !hasMinus {
				minus, hasMinus = v, true
			}
			if t > 0 && !hasPlus {
				plus, hasPlus = v, true
			}
			if first || v < lo {
				lo = v
			}
			if first || v > hi {
				hi = v
			}
			first = false
		}
		if cnt == 0 {
			continue
		}
		a := axisEst{est: sum / cnt, twoSided: hasMinus && hasPlus}
		if a.twoSided {
			a.grad = absf(minus - plus)
			twoSided++
		} else {
			a.grad = hi - lo
		}
		axes[found] = a
		found++
	}
	var est, wsum float32
	for k := 0; k < found; k++ {
		if twoSided > 0 && !axes[k].twoSided {
			continue
		}
		aw := 1.0 / (gradEps + axes[k].grad)
		est += axes[k].est * aw
		wsum += aw
	}
	if wsum == 0 {
		// No green on any axis within two steps; a valid pattern should
		// not get here, but stay total.
		return reducedNeighborhood(mono, w, h, chAt, x, y, ChannelG, xtransBorder, maxInt(w, h))
	}
	return est / wsum
}

// xtransChromaAt returns the interpolated color difference (want - green)
// at an interior position, favoring directions whose chroma agrees with
// the local consensus.
func xtransChromaAt(mono, green []float32, w, h int, chAt channelAtFunc, x, y int, want Channel) float32 {
	var chroma [8]float32
	var dist [8]float32
	found := 0
	var mean float32
	for _, d := range xtransDirs {
		for t := 1; t <= xtransBorder; t++ {
			nx, ny := x+d[0]*t, y+d[1]*t
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				break
			}
			if chAt(nx, ny) != want {
				continue
			}
			j := ny*w + nx
			chroma[found] = mono[j] - green[j]
			dist[found] = float32(t)
			mean += chroma[found]
			found++
			break
		}
	}
	if found == 0 {
		// Fall back to a plain same-channel neighborhood average.
		v := reducedNeighborhood(mono, w, h, chAt, x, y, want, xtransBorder, maxInt(w, h))
		return v - green[y*w+x]
	}
	mean /= float32(found)
	var sum, wsum float32
	for k := 0; k < found; k++ {
		dw := 1.0 / ((gradEps + absf(chroma[k]-mean)) * dist[k])
		sum += chroma[k] * dw
		wsum += dw
	}
	return sum / wsum
}
