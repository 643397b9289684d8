package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Benitoite/rawunravel"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "decode":
		if err := runDecode(os.Args[2:]); err != nil {
			fail(err)
		}
	case "preview":
		if err := runPreview(os.Args[2:]); err != nil {
			fail(err)
		}
	case "size":
		if err := runSize(os.Args[2:]); err != nil {
			fail(err)
		}
	case "orient":
		if err := runOrient(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: rawunravel <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  decode  -in mosaic.tiff -out out.tiff [-cfa rggb|xtrans] [-flip 0] [-bits 16] [-png] [-progress] [-srgb-in]")
	fmt.Fprintln(os.Stderr, "  preview -in mosaic.tiff -out out.png [-cfa rggb|xtrans] [-flip 0] [-w 0] [-h 0] [-srgb-in]")
	fmt.Fprintln(os.Stderr, "  size    -in mosaic.tiff")
	fmt.Fprintln(os.Stderr, "  orient  -flip 5")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// loadSensorData reads the mosaic TIFF and builds the container boundary
// struct from command-line metadata.
func loadSensorData(inPath, cfa string, flip int, srgbIn bool) (*rawunravel.SensorData, error) {
	f, err := os.Open(filepath.Clean(inPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	plane, err := rawunravel.ReadMosaicTIFF(f, func(o *rawunravel.ReadOptions) { o.SRGBEncoded = srgbIn })
	if err != nil {
		return nil, err
	}
	sd := &rawunravel.SensorData{
		Planes: []*rawunravel.MosaicPlane{plane},
		Flip:   flip,
	}
	if strings.EqualFold(cfa, "xtrans") {
		sd.Sensor = rawunravel.SensorXTrans
		pattern := rawunravel.XTransStandard
		sd.XTrans = &pattern
		return sd, nil
	}
	pattern, err := rawunravel.ParseBayerPattern(cfa)
	if err != nil {
		return nil, err
	}
	sd.Sensor = rawunravel.SensorBayer
	sd.Bayer = &pattern
	return sd, nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input mosaic TIFF")
	outPath := fs.String("out", "", "output image")
	cfa := fs.String("cfa", "rggb", "CFA layout: rggb/grbg/gbrg/bggr or xtrans")
	flip := fs.Int("flip", 0, "LibRaw flip code (0-7)")
	bits := fs.Int("bits", 16, "output bit depth: 8 or 16")
	usePNG := fs.Bool("png", false, "write PNG instead of TIFF")
	showProgress := fs.Bool("progress", false, "print progress events")
	srgbIn := fs.Bool("srgb-in", false, "input samples are sRGB-encoded, linearize on read")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	if *bits != 8 && *bits != 16 {
		return errors.New("bits must be 8 or 16")
	}

	sd, err := loadSensorData(*inPath, *cfa, *flip, *srgbIn)
	if err != nil {
		return err
	}

	var dec *rawunravel.Decoder
	if *showProgress {
		pr := rawunravel.NewProgressReporter(func(ev rawunravel.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%s] %s/%s %d/%d\n", ev.JobID, ev.Phase, ev.Step, ev.Iter, ev.Total)
		})
		defer pr.Close()
		dec = rawunravel.NewDecoder(func(o *rawunravel.DecoderOptions) { o.Progress = pr })
	} else {
		dec = rawunravel.NewDecoder()
	}

	raster, err := dec.Decode(sd)
	if err != nil {
		return err
	}
	return writeRaster(*outPath, raster, *bits, *usePNG)
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	inPath := fs.String("in", "", "input mosaic TIFF")
	outPath := fs.String("out", "", "output image")
	cfa := fs.String("cfa", "rggb", "CFA layout: rggb/grbg/gbrg/bggr or xtrans")
	flip := fs.Int("flip", 0, "LibRaw flip code (0-7)")
	width := fs.Int("w", 0, "target width (0 = superpixel size)")
	height := fs.Int("h", 0, "target height (0 = superpixel size)")
	srgbIn := fs.Bool("srgb-in", false, "input samples are sRGB-encoded, linearize on read")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	sd, err := loadSensorData(*inPath, *cfa, *flip, *srgbIn)
	if err != nil {
		return err
	}
	dec := rawunravel.NewDecoder()
	raster, err := dec.PreviewSuperpixel(sd, func(o *rawunravel.PreviewOptions) {
		o.TargetWidth = *width
		o.TargetHeight = *height
	})
	if err != nil {
		return err
	}
	return writeRaster(*outPath, raster, 8, true)
}

func runSize(args []string) error {
	fs := flag.NewFlagSet("size", flag.ContinueOnError)
	inPath := fs.String("in", "", "input mosaic TIFF")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	sd, err := loadSensorData(*inPath, "rggb", 0, false)
	if err != nil {
		return err
	}
	w, h, err := rawunravel.NewDecoder().ActiveSize(sd)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%dx%d\n", w, h)
	return nil
}

func runOrient(args []string) error {
	fs := flag.NewFlagSet("orient", flag.ContinueOnError)
	flip := fs.Int("flip", 0, "LibRaw flip code")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "exif %d\n", rawunravel.MapLibRawFlipToEXIF(*flip))
	return nil
}

func writeRaster(path string, r *rawunravel.Raster, bits int, usePNG bool) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	var err2 error
	if bits == 8 {
		img := r.ToNRGBA(true)
		if usePNG {
			err2 = rawunravel.EncodePNG(f, img)
		} else {
			err2 = rawunravel.EncodeTIFF(f, img)
		}
	} else {
		img := r.ToNRGBA64(true)
		if usePNG {
			err2 = rawunravel.EncodePNG(f, img)
		} else {
			err2 = rawunravel.EncodeTIFF(f, img)
		}
	}
	if err2 != nil {
		return err2
	}
	return f.Close()
}
