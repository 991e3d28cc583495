package renderer

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/glintrender/glint/pkg/core"
)

// RenderStats summarizes the sampling work done for a region or a pass.
type RenderStats struct {
	TotalPixels    int
	TotalSamples   int
	AverageSamples float64
	MaxSamples     int // Samples allowed per pixel
	MinSamples     int // Fewest samples any pixel received
	MaxSamplesUsed int // Most samples any pixel received
}

// PixelStats accumulates color samples for one pixel across passes.
type PixelStats struct {
	ColorAccum  core.Color
	SampleCount int
}

// AddSample folds a new color sample into the accumulator.
func (ps *PixelStats) AddSample(c core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(c)
	ps.SampleCount++
}

// GetColor returns the average color seen so far.
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Color{}
	}
	return ps.ColorAccum.Scale(1 / float64(ps.SampleCount))
}

// TimingSummary condenses per-tile render durations for one pass.
type TimingSummary struct {
	Tiles  int
	Total  time.Duration
	Mean   time.Duration
	Median time.Duration
	P95    time.Duration
}

// SummarizeTileTimes reduces a set of tile durations to the numbers worth
// logging. An empty input yields a zero summary.
func SummarizeTileTimes(durations []time.Duration) TimingSummary {
	if len(durations) == 0 {
		return TimingSummary{}
	}

	data := make([]float64, len(durations))
	var total time.Duration
	for i, d := range durations {
		data[i] = float64(d)
		total += d
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	p95, err := stats.Percentile(data, 95)
	if err != nil {
		// Too few samples for a percentile. Fall back to the worst tile.
		p95, _ = stats.Max(data)
	}

	return TimingSummary{
		Tiles:  len(durations),
		Total:  total,
		Mean:   time.Duration(mean),
		Median: time.Duration(median),
		P95:    time.Duration(p95),
	}
}
