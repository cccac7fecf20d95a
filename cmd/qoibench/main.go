// Command qoibench times this package's encoder and decoder against
// PNG, BMP and QOI test images, verifying every round-trip is
// byte-for-byte exact before reporting throughput.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"golang.org/x/image/bmp"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oceanqoi/qoi"
	"github.com/oceanqoi/qoi/internal/qoifixtures"
)

type statSelector string

const (
	statMean   statSelector = "mean"
	statMedian statSelector = "median"
)

type formatSelector string

const (
	formatCompact formatSelector = "compact"
	formatFancy   formatSelector = "fancy"
)

type modeSelector string

const (
	modeBuffer modeSelector = "buffer"
	modeStream modeSelector = "stream"
)

func main() {
	seconds := flag.Float64("seconds", 0.5, "seconds to spend benchmarking each codec direction per image")
	stat := flag.String("stat", string(statMean), "aggregation selector: mean or median")
	format := flag.String("format", string(formatCompact), "table rendering: compact or fancy")
	mode := flag.String("mode", string(modeBuffer), "codec entry point: buffer or stream")
	logFile := flag.String("log-file", "", "optional lumberjack-rotated log destination")
	seed := flag.Int64("seed", 1, "seed for synthetic images generated when no paths are given")
	flag.Parse()

	log := newLogger(*logFile)
	defer log.Sync() //nolint:errcheck

	paths := flag.Args()
	images, err := collectImages(paths, *seed)
	if err != nil {
		log.Error("collecting images failed", zap.Error(err))
		os.Exit(1)
	}

	results := make([]imageResult, 0, len(images))
	for _, img := range images {
		r, err := benchmarkImage(img, *seconds, statSelector(*stat), modeSelector(*mode))
		if err != nil {
			log.Error("benchmark failed", zap.String("name", img.name), zap.Error(err))
			os.Exit(1)
		}
		results = append(results, r)
	}

	printReport(os.Stdout, results, formatSelector(*format))
}

func newLogger(path string) *zap.Logger {
	if path == "" {
		log, _ := zap.NewProduction()
		return log
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), zap.InfoLevel)
	return zap.New(core)
}

// namedImage pairs a raw pixel buffer ready for the codec with its
// display name and source channel count.
type namedImage struct {
	name     string
	width    int
	height   int
	channels uint8
	pix      []byte // tightly packed RGB or RGBA per channels
}

func collectImages(paths []string, seed int64) ([]namedImage, error) {
	if len(paths) == 0 {
		return syntheticImages(seed), nil
	}

	var files []string
	for _, p := range paths {
		err := filepath.Walk(p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			switch filepath.Ext(path) {
			case ".png", ".bmp", ".qoi":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	images := make([]namedImage, 0, len(files))
	for _, f := range files {
		img, err := loadImage(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func loadImage(path string) (namedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return namedImage{}, err
	}

	var decoded image.Image
	switch filepath.Ext(path) {
	case ".png":
		decoded, err = png.Decode(bytes.NewReader(data))
	case ".bmp":
		decoded, err = bmp.Decode(bytes.NewReader(data))
	case ".qoi":
		decoded, err = qoi.Decode(bytes.NewReader(data))
	default:
		return namedImage{}, fmt.Errorf("unsupported extension %s", filepath.Ext(path))
	}
	if err != nil {
		return namedImage{}, err
	}

	bounds := decoded.Bounds()
	nrgba := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			nrgba.Set(x, y, decoded.At(x, y))
		}
	}

	return namedImage{
		name:     filepath.Base(path),
		width:    bounds.Dx(),
		height:   bounds.Dy(),
		channels: 4,
		pix:      nrgba.Pix,
	}, nil
}

// syntheticImages builds a small fixed set of generated images when no
// paths are given, using internal/qoifixtures so the benchmark has
// deterministic, opcode-diverse input without touching the filesystem.
func syntheticImages(seed int64) []namedImage {
	sizes := []int{16, 64, 256}
	images := make([]namedImage, 0, len(sizes))
	for i, side := range sizes {
		pixels := qoifixtures.Stream(seed+int64(i), side*side, qoifixtures.DefaultWeights)
		images = append(images, namedImage{
			name:     fmt.Sprintf("synthetic-%dx%d", side, side),
			width:    side,
			height:   side,
			channels: 4,
			pix:      qoifixtures.PixelsToRGBA(pixels),
		})
	}
	return images
}

type imageResult struct {
	name          string
	width, height int
	rawBytes      int
	qoiBytes      int
	encodeSeconds float64
	decodeSeconds float64
}

func benchmarkImage(img namedImage, seconds float64, sel statSelector, mode modeSelector) (imageResult, error) {
	opts := qoi.EncodeOptions{Channels: img.channels}

	encoded, err := encodeOnce(img, mode, opts)
	if err != nil {
		return imageResult{}, fmt.Errorf("initial encode: %w", err)
	}
	decoded, err := decodeOnce(encoded, mode)
	if err != nil {
		return imageResult{}, fmt.Errorf("initial decode: %w", err)
	}
	if !bytes.Equal(decoded, img.pix) {
		return imageResult{}, fmt.Errorf("round-trip mismatch for %s", img.name)
	}

	encodeTimes := timeIterations(seconds, func() {
		_, _ = encodeOnce(img, mode, opts)
	})
	decodeTimes := timeIterations(seconds, func() {
		_, _ = decodeOnce(encoded, mode)
	})

	return imageResult{
		name:          img.name,
		width:         img.width,
		height:        img.height,
		rawBytes:      len(img.pix),
		qoiBytes:      len(encoded),
		encodeSeconds: aggregate(encodeTimes, sel),
		decodeSeconds: aggregate(decodeTimes, sel),
	}, nil
}

func encodeOnce(img namedImage, mode modeSelector, opts qoi.EncodeOptions) ([]byte, error) {
	if mode == modeStream {
		var buf bytes.Buffer
		_, err := qoi.EncodeToStream(&buf, img.pix, uint32(img.width), uint32(img.height), opts)
		return buf.Bytes(), err
	}
	return qoi.EncodeToBytes(img.pix, uint32(img.width), uint32(img.height), opts)
}

func decodeOnce(data []byte, mode modeSelector) ([]byte, error) {
	if mode == modeStream {
		_, pix, err := qoi.DecodeFromStream(bytes.NewReader(data), qoi.DecodeOptions{})
		return pix, err
	}
	_, pix, err := qoi.DecodeToBytes(data, qoi.DecodeOptions{})
	return pix, err
}

func timeIterations(budget float64, f func()) []float64 {
	var times []float64
	deadline := time.Now().Add(time.Duration(budget * float64(time.Second)))
	for time.Now().Before(deadline) || len(times) == 0 {
		start := time.Now()
		f()
		times = append(times, time.Since(start).Seconds())
		if len(times) >= 10000 {
			break
		}
	}
	return times
}

func aggregate(times []float64, sel statSelector) float64 {
	if len(times) == 0 {
		return 0
	}
	if sel == statMedian {
		sorted := append([]float64(nil), times...)
		sortFloats(sorted)
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	return stat.Mean(times, nil)
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

func printReport(w io.Writer, results []imageResult, format formatSelector) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if format == formatFancy {
		fmt.Fprintln(tw, "IMAGE\tDIM\tRAW BYTES\tQOI BYTES\tRATIO\tENCODE MB/s\tDECODE MB/s")
	} else {
		fmt.Fprintln(tw, "image\tdim\traw\tqoi\tratio\tenc MB/s\tdec MB/s")
	}

	var totalRaw, totalQOI int
	var totalEnc, totalDec float64
	for _, r := range results {
		ratio := float64(r.rawBytes) / float64(r.qoiBytes)
		encMBs := throughputMBs(r.rawBytes, r.encodeSeconds)
		decMBs := throughputMBs(r.rawBytes, r.decodeSeconds)
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%d\t%.2f\t%.1f\t%.1f\n",
			r.name, r.width, r.height, r.rawBytes, r.qoiBytes, ratio, encMBs, decMBs)
		totalRaw += r.rawBytes
		totalQOI += r.qoiBytes
		totalEnc += r.encodeSeconds
		totalDec += r.decodeSeconds
	}

	if totalQOI > 0 {
		fmt.Fprintf(tw, "TOTAL\t\t%d\t%d\t%.2f\t%.1f\t%.1f\n", totalRaw, totalQOI, float64(totalRaw)/float64(totalQOI),
			throughputMBs(totalRaw, totalEnc), throughputMBs(totalRaw, totalDec))
	}

	tw.Flush() //nolint:errcheck
}

func throughputMBs(bytesCount int, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(bytesCount) / (1024 * 1024) / seconds
}
