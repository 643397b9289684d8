package rawunravel

// SensorType identifies the mosaic geometry reported by the RAW container.
type SensorType int

const (
	SensorUnknown SensorType = iota
	SensorBayer
	SensorXTrans
)

func (t SensorType) String() string {
	switch t {
	case SensorBayer:
		return "bayer"
	case SensorXTrans:
		return "xtrans"
	default:
		return "unknown"
	}
}

// MosaicPlane stores one normalized mosaiced intensity plane, row-major.
// Values are linear light; the container reader is responsible for
// black/white level normalization.
type MosaicPlane struct {
	Width  int
	Height int
	Pix    []float32
}

// NewMosaicPlane allocates a zeroed plane of the given size.
func NewMosaicPlane(width, height int) *MosaicPlane {
	return &MosaicPlane{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// ColorPlaneSet holds three equal-dimension linear float planes produced by
// a demosaic engine. Orientation has not yet been applied.
type ColorPlaneSet struct {
	Width  int
	Height int
	R      []float32
	G      []float32
	B      []float32
}

// NewColorPlaneSet allocates three zeroed planes of the given size.
func NewColorPlaneSet(width, height int) *ColorPlaneSet {
	n := width * height
	return &ColorPlaneSet{
		Width:  width,
		Height: height,
		R:      make([]float32, n),
		G:      make([]float32, n),
		B:      make([]float32, n),
	}
}

// Raster is the final pipeline output: linear RGB planes with orientation
// baked in. Orientation is always 1 (identity) after normalization, so no
// downstream consumer needs to re-interpret it.
type Raster struct {
	Width       int
	Height      int
	R           []float32
	G           []float32
	B           []float32
	Orientation int
}

// SensorData is the boundary contract with the external container reader:
// everything the pipeline needs to decode one RAW capture. Planes must be
// co-registered and share dimensions. Exactly one of Bayer/XTrans must be
// set, matching Sensor.
type SensorData struct {
	Sensor SensorType
	Bayer  *BayerPattern
	XTrans *XTransPattern
	Planes []*MosaicPlane
	Flip   int // LibRaw sizes.flip, 0-7; out-of-range is treated as 0
}

// Validate checks the boundary invariants the container reader must uphold.
func (sd *SensorData) Validate() error {
	if sd == nil || len(sd.Planes) == 0 || sd.Planes[0] == nil {
		return ErrMissingInput
	}
	w, h := sd.Planes[0].Width, sd.Planes[0].Height
	if w < minDemosaicSize || h < minDemosaicSize {
		return ErrInvalidDimensions
	}
	for _, p := range sd.Planes {
		if p == nil {
			return ErrMissingInput
		}
		if p.Width != w || p.Height != h {
			return ErrInvalidDimensions
		}
		if len(p.Pix) < w*h {
			return ErrMissingInput
		}
	}
	switch sd.Sensor {
	case SensorBayer:
		if sd.Bayer == nil {
			return ErrMissingInput
		}
		return sd.Bayer.Validate()
	case SensorXTrans:
		if sd.XTrans == nil {
			return ErrMissingInput
		}
		return sd.XTrans.Validate()
	default:
		return ErrUnsupportedGeometry
	}
}

// Size returns the active dimensions without running any demosaic engine.
func (sd *SensorData) Size() (width, height int) {
	if sd == nil || len(sd.Planes) == 0 || sd.Planes[0] == nil {
		return 0, 0
	}
	return sd.Planes[0].Width, sd.Planes[0].Height
}
