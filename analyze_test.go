package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"statistic_analyzer/internal/sample"
	"statistic_analyzer/internal/stats"
)

func TestAnalyzeSample(t *testing.T) {
	engine := &stats.Engine{}
	report, err := analyzeSample(engine, []float64{5, 3, 1, 4, 2}, 2, nil)
	if err != nil {
		t.Fatalf("analyzeSample returned error: %v", err)
	}
	if report.Size != 5 || report.Sum != 15 || report.Mean != 3 {
		t.Fatalf("unexpected report: %#v", report)
	}
	if report.Min != 1 || report.Max != 5 {
		t.Fatalf("unexpected min/max: %#v", report)
	}
	if diff := math.Abs(report.StdDev - math.Sqrt2); diff > 1e-9 {
		t.Fatalf("unexpected stddev: %v", report.StdDev)
	}
	if diff := math.Abs(report.Variance - 2); diff > 1e-9 {
		t.Fatalf("unexpected variance: %v", report.Variance)
	}
	if report.Intervals != 2 {
		t.Fatalf("expected 2 intervals, got %d", report.Intervals)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 4, 5}, engine.Sample()); diff != "" {
		t.Fatalf("sample not sorted (-want +got):\n%s", diff)
	}
}

func TestAnalyzeSampleEmpty(t *testing.T) {
	report, err := analyzeSample(&stats.Engine{}, nil, 5, nil)
	if !errors.Is(err, errEmptySample) {
		t.Fatalf("expected errEmptySample, got %v", err)
	}
	if report != (Report{}) {
		t.Fatalf("expected zero-value report, got %#v", report)
	}
}

func TestAnalyzeSampleConstant(t *testing.T) {
	report, err := analyzeSample(&stats.Engine{}, []float64{4, 4, 4}, 3, nil)
	if !errors.Is(err, stats.ErrDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}
	if report.Mean != 4 || report.StdDev != 0 {
		t.Fatalf("summary should still be filled: %#v", report)
	}
}

func TestAnalyzeSampleErase(t *testing.T) {
	engine := &stats.Engine{}
	report, err := analyzeSample(engine, []float64{9, 1, 2, 9, 3, 100}, 2, []float64{100, 9, 42})
	if err != nil {
		t.Fatalf("analyzeSample returned error: %v", err)
	}
	if report.Erased != 2 {
		t.Fatalf("expected 2 erased values, got %d", report.Erased)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 9}, engine.Sample()); diff != "" {
		t.Fatalf("unexpected sample after erase (-want +got):\n%s", diff)
	}
	if report.Size != 4 || report.Mean != 3.75 || report.Max != 9 {
		t.Fatalf("statistics not recomputed after erase: %#v", report)
	}
	if report.Intervals != 2 {
		t.Fatalf("expected 2 intervals, got %d", report.Intervals)
	}
}

func TestAnalyzeSampleEraseEverything(t *testing.T) {
	report, err := analyzeSample(&stats.Engine{}, []float64{7}, 3, []float64{7})
	if !errors.Is(err, errEmptySample) {
		t.Fatalf("expected errEmptySample, got %v", err)
	}
	if report.Erased != 1 {
		t.Fatalf("expected 1 erased value, got %d", report.Erased)
	}
}

func TestProcessSampleReportsDomainError(t *testing.T) {
	rssBytesFunc = func() uint64 { return 0 }
	t.Cleanup(func() { rssBytesFunc = rssBytes })

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	report, err := processSample([]float64{4, 4, 4}, analyzeConfig{source: sourceFile, intervals: 3})
	if !errors.Is(err, stats.ErrDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}
	if report.Size != 3 || report.Mean != 4 {
		t.Fatalf("summary should still be filled: %#v", report)
	}
	out := buf.String()
	if !strings.Contains(out, `"message":"processed sample"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("report not logged on domain error: %s", out)
	}
	if !strings.Contains(out, `"mean":4`) {
		t.Fatalf("logged report lacks the mean: %s", out)
	}
}

func TestProcessSampleWritesGraphData(t *testing.T) {
	rssBytesFunc = func() uint64 { return 0 }
	t.Cleanup(func() { rssBytesFunc = rssBytes })

	cfg := analyzeConfig{
		source:    sourceFile,
		intervals: 5,
		graphOut:  filepath.Join(t.TempDir(), "graph.txt"),
	}
	if _, err := processSample([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, cfg); err != nil {
		t.Fatalf("processSample returned error: %v", err)
	}

	raw, err := os.ReadFile(cfg.graphOut)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	if lines[0] != "# empirical" {
		t.Fatalf("unexpected first header: %q", lines[0])
	}
	if lines[1] != "1\t0" || lines[7] != "10\t0" {
		t.Fatalf("empirical block should run from (min, 0) to (max, 0): %q", lines[1:8])
	}
	var x, y float64
	if _, err := fmt.Sscanf(lines[2], "%g\t%g", &x, &y); err != nil {
		t.Fatalf("first interval point %q: %v", lines[2], err)
	}
	if math.Abs(x-1.9) > 1e-9 || math.Abs(y-0.2) > 1e-9 {
		t.Fatalf("unexpected first interval point: %q", lines[2])
	}
	if lines[8] != "# normal" {
		t.Fatalf("expected 7 empirical rows before the normal header, got %q", lines[8])
	}
	if len(lines) < 10 {
		t.Fatalf("normal block is empty:\n%s", raw)
	}
	for _, line := range lines[9:] {
		if strings.Count(line, "\t") != 1 {
			t.Fatalf("malformed x/y row %q", line)
		}
	}
}

func TestWriteGraphDataWithoutStatistics(t *testing.T) {
	var buf bytes.Buffer
	if err := writeGraphData(&buf, &stats.Engine{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "# empirical\n# normal\n" {
		t.Fatalf("unexpected output for empty engine: %q", buf.String())
	}
}

func TestProcessSampleWritesDumps(t *testing.T) {
	rssBytesFunc = func() uint64 { return 0 }
	t.Cleanup(func() { rssBytesFunc = rssBytes })

	dir := t.TempDir()
	cfg := analyzeConfig{
		source:       sourceFile,
		intervals:    5,
		sortedOut:    filepath.Join(dir, "sorted.txt"),
		intervalsOut: filepath.Join(dir, "intervals.txt"),
	}
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	if _, err := processSample(values, cfg); err != nil {
		t.Fatalf("processSample returned error: %v", err)
	}

	sorted, err := os.ReadFile(cfg.sortedOut)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(sorted), "(statistic size: 10)\n") {
		t.Fatalf("unexpected sorted dump: %q", sorted)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, sample.Read(cfg.sortedOut)); diff != "" {
		t.Fatalf("sorted dump does not read back (-want +got):\n%s", diff)
	}

	intervals, err := os.ReadFile(cfg.intervalsOut)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(intervals), "\n"); n != 5 {
		t.Fatalf("expected 5 interval lines, got %d:\n%s", n, intervals)
	}
	if !strings.HasPrefix(string(intervals), "Interval #1\t[min: 1, max: 2.8, mid: 1.9]:\t1\t2\t[n = 2, n/N = 0.2]\n") {
		t.Fatalf("unexpected interval dump:\n%s", intervals)
	}
}

func TestLoadSampleFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, []byte("1 2\n3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	values, err := loadSample(context.Background(), analyzeConfig{file: path, source: sourceFile})
	if err != nil {
		t.Fatalf("loadSample returned error: %v", err)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, values); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestLoadSampleErrors(t *testing.T) {
	if _, err := loadSample(context.Background(), analyzeConfig{source: sourceFile}); err == nil {
		t.Fatalf("expected error without a file")
	}
	if _, err := loadSample(context.Background(), analyzeConfig{source: "s3"}); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestRunAnalyzeMissingFile(t *testing.T) {
	rssBytesFunc = func() uint64 { return 0 }
	t.Cleanup(func() { rssBytesFunc = rssBytes })

	cfg := analyzeConfig{file: filepath.Join(t.TempDir(), "missing.txt"), source: sourceFile, intervals: 3}
	if err := runAnalyze(context.Background(), cfg); !errors.Is(err, errEmptySample) {
		t.Fatalf("expected errEmptySample, got %v", err)
	}
}
