package rawunravel

import (
	"fmt"

	"github.com/google/uuid"
)

// JobState tracks a decode job through the pipeline.
type JobState int

const (
	StateIdle JobState = iota
	StatePlaneAcquired
	StateDemosaiced
	StateOrientationNormalized
	StateDelivered
	StateFailed
)

func (s JobState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaneAcquired:
		return "plane-acquired"
	case StateDemosaiced:
		return "demosaiced"
	case StateOrientationNormalized:
		return "orientation-normalized"
	case StateDelivered:
		return "delivered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	// Progress receives phase-transition events for all jobs. Nil disables
	// reporting.
	Progress *ProgressReporter
}

// Decoder runs the decode pipeline: acquire planes, demosaic by sensor
// geometry, normalize orientation, deliver. Decoders are safe for
// concurrent use; jobs share no buffers.
type Decoder struct {
	progress *ProgressReporter
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...func(o *DecoderOptions)) *Decoder {
	opt := DecoderOptions{}
	for _, apply := range opts {
		apply(&opt)
	}
	return &Decoder{progress: opt.Progress}
}

// DecodeOptions configures one decode job.
type DecodeOptions struct {
	// JobID identifies the job in progress events. Empty means a fresh
	// random identifier.
	JobID string
}

// DecodeResult is the outcome of an asynchronous decode job.
type DecodeResult struct {
	JobID  string
	Raster *Raster
	State  JobState
	Err    error
}

type job struct {
	id    string
	state JobState
	d     *Decoder
}

func (d *Decoder) newJob(requested string) *job {
	id := requested
	if id == "" {
		id = uuid.NewString()
	}
	return &job{id: id, state: StateIdle, d: d}
}

// advance moves the job to the next state and reports it. Failed is
// terminal; advancing a failed job is a no-op.
func (j *job) advance(state JobState, phase, step string, iter, total int) {
	if j.state == StateFailed {
		return
	}
	j.state = state
	if j.d.progress != nil {
		j.d.progress.Post(ProgressEvent{JobID: j.id, Phase: phase, Step: step, Iter: iter, Total: total})
	}
}

func (j *job) fail(phase string, err error) error {
	j.state = StateFailed
	if j.d.progress != nil {
		j.d.progress.Post(ProgressEvent{JobID: j.id, Phase: phase, Step: "failed", Iter: 0, Total: 0})
	}
	return err
}

// Decode runs the full-resolution pipeline synchronously and returns a
// raster in canonical orientation. Any engine failure is returned as-is;
// there is no fallback to a different algorithm.
func (d *Decoder) Decode(sd *SensorData, opts ...func(o *DecodeOptions)) (*Raster, error) {
	opt := DecodeOptions{}
	for _, apply := range opts {
		apply(&opt)
	}
	j := d.newJob(opt.JobID)
	return d.decode(j, sd)
}

// Go submits a decode job on its own goroutine and returns its identifier
// together with a channel delivering the single result. A caller abandons
// a job by discarding the identifier and ignoring its events.
func (d *Decoder) Go(sd *SensorData, opts ...func(o *DecodeOptions)) (string, <-chan DecodeResult) {
	opt := DecodeOptions{}
	for _, apply := range opts {
		apply(&opt)
	}
	j := d.newJob(opt.JobID)
	ch := make(chan DecodeResult, 1)
	go func() {
		r, err := d.decode(j, sd)
		ch <- DecodeResult{JobID: j.id, Raster: r, State: j.state, Err: err}
	}()
	return j.id, ch
}

func (d *Decoder) decode(j *job, sd *SensorData) (*Raster, error) {
	if err := sd.Validate(); err != nil {
		return nil, j.fail("acquire", err)
	}
	w, h := sd.Size()
	j.advance(StatePlaneAcquired, "acquire", "planes", 1, 1)

	ps := NewColorPlaneSet(w, h)
	var err error
	switch sd.Sensor {
	case SensorBayer:
		j.advance(StatePlaneAcquired, "demosaic", "amaze", 0, 1)
		err = AmazeDemosaic(sd.Planes[0].Pix, w, h, *sd.Bayer, ps.R, ps.G, ps.B)
	case SensorXTrans:
		j.advance(StatePlaneAcquired, "demosaic", "xtrans", 0, 1)
		var p1, p2 []float32
		if len(sd.Planes) > 1 {
			p1 = sd.Planes[1].Pix
		}
		if len(sd.Planes) > 2 {
			p2 = sd.Planes[2].Pix
		}
		err = XTransDemosaic(sd.Planes[0].Pix, p1, p2, w, h, *sd.XTrans, ps.R, ps.G, ps.B)
	default:
		err = ErrUnsupportedGeometry
	}
	if err != nil {
		return nil, j.fail("demosaic", fmt.Errorf("demosaic %s: %w", sd.Sensor, err))
	}
	j.advance(StateDemosaiced, "demosaic", "done", 1, 1)

	exif := MapLibRawFlipToEXIF(sd.Flip)
	ps = ApplyOrientation(ps, exif)
	j.advance(StateOrientationNormalized, "orient", "bake", 1, 1)

	r := &Raster{
		Width:       ps.Width,
		Height:      ps.Height,
		R:           ps.R,
		G:           ps.G,
		B:           ps.B,
		Orientation: exifIdentity,
	}
	j.advance(StateDelivered, "deliver", "raster", 1, 1)
	return r, nil
}

// ActiveSize returns the capture dimensions without running any demosaic
// engine. Dimensions reflect the sensor layout, not orientation.
func (d *Decoder) ActiveSize(sd *SensorData) (width, height int, err error) {
	if err := sd.Validate(); err != nil {
		return 0, 0, err
	}
	w, h := sd.Size()
	return w, h, nil
}

// OrientationOf returns the canonical EXIF orientation the capture would
// be normalized from, inspecting metadata only. Fail-open: unknown flip
// codes report identity.
func (d *Decoder) OrientationOf(sd *SensorData) int {
	if sd == nil {
		return exifIdentity
	}
	return MapLibRawFlipToEXIF(sd.Flip)
}
