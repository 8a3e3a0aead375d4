package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"log-power-tracker/internal/chart"
	"log-power-tracker/internal/series"
	"log-power-tracker/internal/store"
)

// Export writes a channel's time series as CSV, PNG, and/or SVG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.ChannelID == "" {
		return errors.New("--channel is required")
	}
	if opts.CSVPath == "" && opts.PNGPath == "" && opts.SVGPath == "" {
		return errors.New("at least one of --csv, --png, or --svg must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	samples, err := st.Samples(ctx, opts.ChannelID)
	if err != nil {
		return err
	}
	if opts.Range > 0 {
		samples = series.Window(samples, opts.Range.Milliseconds())
	}
	if len(samples) == 0 {
		a.Logger.Info().Str("channel", opts.ChannelID).Msg("no samples found for export window")
		return nil
	}

	a.Logger.Info().Int("samples", len(samples)).Str("channel", opts.ChannelID).Msg("exporting series")

	if opts.CSVPath != "" {
		if err := writeSamplesCSV(opts.CSVPath, samples, opts.MaxPoints); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		if err := writeSamplesPNG(opts.PNGPath, samples, opts.MaxPoints); err != nil {
			return err
		}
	}
	if opts.SVGPath != "" {
		if err := a.writeSamplesSVG(opts.SVGPath, samples, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeSamplesCSV(path string, samples []store.Sample, max int) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "power"}); err != nil {
		return err
	}
	for _, s := range downsampleSamples(samples, max) {
		record := []string{
			time.UnixMilli(s.T).UTC().Format(time.RFC3339),
			strconv.FormatInt(s.V, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func downsampleSamples(samples []store.Sample, max int) []store.Sample {
	if max <= 0 || len(samples) <= max {
		return samples
	}
	step := float64(len(samples)) / float64(max)
	result := make([]store.Sample, 0, max)
	// the float stride can round into one extra iteration, so the
	// length guard keeps the cap exact
	for i := 0.0; i < float64(len(samples)) && len(result) < max; i += step {
		result = append(result, samples[int(i)])
	}
	return result
}

func writeSamplesPNG(path string, samples []store.Sample, max int) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	downsampled := downsampleSamples(samples, max)
	x := make([]time.Time, len(downsampled))
	y := make([]float64, len(downsampled))
	for i, s := range downsampled {
		x[i] = time.UnixMilli(s.T)
		y[i] = float64(s.V)
	}

	graph := gochart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name: "Power",
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Power",
				XValues: x,
				YValues: y,
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(gochart.PNG, file)
}

func (a *App) writeSamplesSVG(path string, samples []store.Sample, opts ExportOptions) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	cfg := chart.DefaultConfig()
	cfg.Width = 960
	cfg.Height = 320
	if a.Config.Chart.MaxPoints > 0 {
		cfg.MaxPoints = a.Config.Chart.MaxPoints
	}
	cfg.YPaddingPct = a.Config.Chart.YPaddingPct
	cfg.BarMinWidth = a.Config.Chart.BarMinWidth
	cfg.BarMaxWidth = a.Config.Chart.BarMaxWidth
	cfg.LabelThreshold = a.Config.Chart.LabelThreshold
	cfg.GridLines = a.Config.Chart.GridLines

	mode := chart.ModeLine
	var points []chart.Point
	if opts.Mode == "bar" {
		mode = chart.ModeBar
		rangeMs := opts.Range.Milliseconds()
		if rangeMs <= 0 && len(samples) > 1 {
			rangeMs = samples[len(samples)-1].T - samples[0].T
		}
		for _, b := range series.Bucketize(samples, rangeMs) {
			points = append(points, chart.Point{X: float64(b.BucketStart), Y: float64(b.Close)})
		}
	} else {
		for _, s := range samples {
			points = append(points, chart.Point{X: float64(s.T), Y: float64(s.V)})
		}
	}

	drawable := chart.Render(points, mode, nil, cfg)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return chart.EncodeSVG(file, drawable, cfg, chart.DefaultTheme())
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
