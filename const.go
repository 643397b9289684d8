package rawunravel

const (
	// minDemosaicSize is the smallest width/height either engine accepts.
	minDemosaicSize = 2

	// bayerBorder and xtransBorder are the widths of the edge bands that
	// fall back to reduced-neighborhood interpolation. The directional
	// schemes need a 5x5 (Bayer) or 7x7 (X-Trans) neighborhood.
	bayerBorder  = 2
	xtransBorder = 3
)

const (
	// gradEps keeps inverse-gradient weights finite on flat regions.
	gradEps = 1e-5

	// directionBias is the ratio above which one interpolation direction
	// is considered dominant and the other is discarded.
	directionBias = 4.0
)

const (
	defaultPreviewBlockBayer  = 2
	defaultPreviewBlockXTrans = 3
)

const (
	exifIdentity = 1
	exifMax      = 8
)
