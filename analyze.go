package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"statistic_analyzer/internal/sample"
	"statistic_analyzer/internal/stats"
)

const (
	sourceFile     = "file"
	sourcePostgres = "postgres"
)

var errEmptySample = errors.New("sample is empty")

// Report is the summary logged for every analysed sample.
type Report struct {
	Size      int
	Sum       float64
	Mean      float64
	StdDev    float64
	Variance  float64
	Min       float64
	Max       float64
	Intervals int
	Erased    int
}

type analyzeConfig struct {
	file         string
	source       string
	intervals    int
	page         int
	perPage      int
	sortedOut    string
	intervalsOut string
	graphOut     string
	erase        floatList
}

// floatList is a repeatable float flag.
type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*l = append(*l, v)
	return nil
}

// analyzeSample loads values into engine, erases the first occurrence of each
// value in erase, then runs sort, the summary statistics and the interval
// build, in that order.
func analyzeSample(engine *stats.Engine, values []float64, intervals int, erase []float64) (Report, error) {
	engine.SetSample(values)
	var erased int
	for _, v := range erase {
		if engine.EraseValue(v) {
			erased++
			continue
		}
		log.Warn().Float64("value", v).Msg("value to erase not in sample")
	}
	engine.Sort()
	if !engine.IsGood() {
		return Report{Erased: erased}, errEmptySample
	}

	report := Report{
		Size:     engine.Size(),
		Sum:      engine.Sum(),
		Mean:     engine.Mean(),
		StdDev:   engine.StandardDeviation(),
		Variance: engine.Variance(),
		Min:      engine.Minimum(),
		Max:      engine.Maximum(),
		Erased:   erased,
	}

	if err := engine.Rebin(intervals); err != nil {
		return report, fmt.Errorf("build intervals: %w", err)
	}
	report.Intervals = len(engine.Intervals())
	return report, nil
}

func loadSample(ctx context.Context, cfg analyzeConfig) ([]float64, error) {
	switch cfg.source {
	case sourceFile, "":
		if cfg.file == "" {
			return nil, errors.New("missing sample file: pass -file or a path argument")
		}
		return sample.Read(cfg.file), nil
	case sourcePostgres:
		db, err := openDB(ctx)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		values, err := fetchSamples(ctx, db, cfg.page, cfg.perPage)
		if err != nil {
			return nil, fmt.Errorf("fetch samples failed: %w", err)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("unknown sample source %q", cfg.source)
	}
}

// processSample analyses values, logs the report with the time and memory it
// took and writes the requested dumps.
func processSample(values []float64, cfg analyzeConfig) (Report, error) {
	engine := &stats.Engine{}
	var report Report
	elapsed, peak, err := measurePeakResidentMemory(func() error {
		var err error
		report, err = analyzeSample(engine, values, cfg.intervals, cfg.erase)
		return err
	})
	if report.Size == 0 {
		return report, err
	}

	event := log.Info()
	if err != nil {
		event = log.Warn().Err(err)
	}
	event.
		Str("source", cfg.source).
		Int("size", report.Size).
		Float64("sum", report.Sum).
		Float64("mean", report.Mean).
		Float64("std_dev", report.StdDev).
		Float64("variance", report.Variance).
		Float64("min", report.Min).
		Float64("max", report.Max).
		Int("intervals", report.Intervals).
		Int("erased", report.Erased).
		Dur("duration", elapsed).
		Uint64("peak_rss_bytes", peak).
		Msg("processed sample")
	if err != nil {
		return report, err
	}

	if cfg.sortedOut != "" {
		if err := writeDump(cfg.sortedOut, func(f *os.File) error { return engine.ShowStatistic(f, '\n') }); err != nil {
			return report, fmt.Errorf("write sorted sample: %w", err)
		}
		log.Info().Str("path", cfg.sortedOut).Msg("sorted sample saved")
	}
	if cfg.intervalsOut != "" {
		if err := writeDump(cfg.intervalsOut, func(f *os.File) error { return engine.ShowStatisticIntervals(f) }); err != nil {
			return report, fmt.Errorf("write intervals: %w", err)
		}
		log.Info().Str("path", cfg.intervalsOut).Msg("intervals saved")
	}
	if cfg.graphOut != "" {
		if err := writeDump(cfg.graphOut, func(f *os.File) error { return writeGraphData(f, engine) }); err != nil {
			return report, fmt.Errorf("write graph data: %w", err)
		}
		log.Info().Str("path", cfg.graphOut).Msg("graph data saved")
	}
	return report, nil
}

// writeGraphData writes the empirical distribution and the fitted normal
// curve as tab separated x/y columns, each block under a "# name" header.
func writeGraphData(w io.Writer, engine *stats.Engine) error {
	for _, series := range []struct {
		name   string
		points stats.Points
	}{
		{"empirical", engine.GraphStatisticData()},
		{"normal", engine.GraphNormalDistributionData()},
	} {
		if _, err := fmt.Fprintf(w, "# %s\n", series.name); err != nil {
			return err
		}
		for i := range series.points.X {
			x := strconv.FormatFloat(series.points.X[i], 'g', -1, 64)
			y := strconv.FormatFloat(series.points.Y[i], 'g', -1, 64)
			if _, err := fmt.Fprintf(w, "%s\t%s\n", x, y); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDump(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runAnalyze(ctx context.Context, cfg analyzeConfig) error {
	values, err := loadSample(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = processSample(values, cfg)
	return err
}
