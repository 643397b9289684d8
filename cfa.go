package rawunravel

import (
	"fmt"
	"strings"
)

// Channel is a CFA color channel, using LibRaw color codes.
type Channel uint8

const (
	ChannelR Channel = 0
	ChannelG Channel = 1
	ChannelB Channel = 2
)

func (c Channel) String() string {
	switch c {
	case ChannelR:
		return "R"
	case ChannelG:
		return "G"
	case ChannelB:
		return "B"
	default:
		return "?"
	}
}

// BayerPattern describes a 2x2-repeating color filter array. Entry [y][x]
// is the channel at pixel offset (x, y) within the repeating cell.
type BayerPattern [2][2]Channel

// XTransPattern describes a 6x6-repeating Fuji X-Trans color filter array.
type XTransPattern [6][6]Channel

// Well-known Bayer layouts.
var (
	BayerRGGB = BayerPattern{{ChannelR, ChannelG}, {ChannelG, ChannelB}}
	BayerGRBG = BayerPattern{{ChannelG, ChannelR}, {ChannelB, ChannelG}}
	BayerGBRG = BayerPattern{{ChannelG, ChannelB}, {ChannelR, ChannelG}}
	BayerBGGR = BayerPattern{{ChannelB, ChannelG}, {ChannelG, ChannelR}}
)

// XTransStandard is the 6x6 layout used by Fuji X-Trans sensors.
var XTransStandard = XTransPattern{
	{ChannelG, ChannelB, ChannelG, ChannelG, ChannelR, ChannelG},
	{ChannelR, ChannelG, ChannelR, ChannelB, ChannelG, ChannelB},
	{ChannelG, ChannelB, ChannelG, ChannelG, ChannelR, ChannelG},
	{ChannelG, ChannelR, ChannelG, ChannelG, ChannelB, ChannelG},
	{ChannelB, ChannelG, ChannelB, ChannelR, ChannelG, ChannelR},
	{ChannelG, ChannelR, ChannelG, ChannelG, ChannelB, ChannelG},
}

// mod returns x mod n in [0, n), correct for negative x.
func mod(x, n int) int {
	m := x % n
	if m < 0 {
		m += n
	}
	return m
}

// At returns the channel occupying pixel position (x, y). The pattern is
// periodic, so any integer coordinate is valid, borders included.
func (p *BayerPattern) At(x, y int) Channel {
	return p[mod(y, 2)][mod(x, 2)]
}

// At returns the channel occupying pixel position (x, y).
func (p *XTransPattern) At(x, y int) Channel {
	return p[mod(y, 6)][mod(x, 6)]
}

// Validate checks that every entry is a valid channel, that the cell
// carries the Bayer census of one red, two greens and one blue, and that
// the greens sit on a diagonal. Cells with both greens in one row or
// column leave a green site without a chroma neighbor on the other axis,
// so no interpolation scheme can serve them.
func (p *BayerPattern) Validate() error {
	var count [3]int
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := p[y][x]
			if c > ChannelB {
				return fmt.Errorf("%w: bad channel %d at (%d,%d)", ErrUnsupportedGeometry, c, x, y)
			}
			count[c]++
		}
	}
	if count[ChannelR] != 1 || count[ChannelG] != 2 || count[ChannelB] != 1 {
		return fmt.Errorf("%w: bayer cell must hold 1R 2G 1B", ErrUnsupportedGeometry)
	}
	onDiagonal := (p[0][0] == ChannelG && p[1][1] == ChannelG) ||
		(p[0][1] == ChannelG && p[1][0] == ChannelG)
	if !onDiagonal {
		return fmt.Errorf("%w: bayer greens must sit on a diagonal", ErrUnsupportedGeometry)
	}
	return nil
}

// Validate checks that every entry is a valid channel and that all three
// channels occur somewhere in the cell.
func (p *XTransPattern) Validate() error {
	var count [3]int
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			c := p[y][x]
			if c > ChannelB {
				return fmt.Errorf("%w: bad channel %d at (%d,%d)", ErrUnsupportedGeometry, c, x, y)
			}
			count[c]++
		}
	}
	for ch, n := range count {
		if n == 0 {
			return fmt.Errorf("%w: channel %s absent from x-trans cell", ErrUnsupportedGeometry, Channel(ch))
		}
	}
	return nil
}

// ParseBayerPattern converts a four-letter layout name such as "RGGB"
// (case-insensitive, row-major) into a BayerPattern.
func ParseBayerPattern(s string) (BayerPattern, error) {
	var p BayerPattern
	if len(s) != 4 {
		return p, fmt.Errorf("%w: bayer layout %q", ErrUnsupportedGeometry, s)
	}
	for i, r := range strings.ToUpper(s) {
		var c Channel
		switch r {
		case 'R':
			c = ChannelR
		case 'G':
			c = ChannelG
		case 'B':
			c = ChannelB
		default:
			return p, fmt.Errorf("%w: bayer layout %q", ErrUnsupportedGeometry, s)
		}
		p[i/2][i%2] = c
	}
	return p, p.Validate()
}
