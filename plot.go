package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/CodeStranger-Fred/qlearning/mdp"
)

// PlotLearningCurve renders the moving average of reward and episode length
// to an HTML page at path.
func PlotLearningCurve(results []mdp.EpisodeResult, window int, path string) error {
	rewards := make([]float64, len(results))
	steps := make([]float64, len(results))
	episodes := make([]string, len(results))
	for i, r := range results {
		rewards[i] = r.Reward
		steps[i] = float64(r.Steps)
		episodes[i] = fmt.Sprintf("%d", i+1)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Q-learning",
			Subtitle: fmt.Sprintf("moving average over %d episodes", window),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
	)
	line.SetXAxis(episodes).
		AddSeries("reward", lineData(movingAverage(rewards, window))).
		AddSeries("steps", lineData(movingAverage(steps, window)))

	page := components.NewPage()
	page.AddCharts(line)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create chart directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// movingAverage averages each value with up to window-1 predecessors.
func movingAverage(xs []float64, window int) []float64 {
	if window <= 0 {
		window = 1
	}
	out := make([]float64, len(xs))
	for i := range xs {
		lo := max(0, i-window+1)
		out[i] = stat.Mean(xs[lo:i+1], nil)
	}
	return out
}

func lineData(xs []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(xs))
	for _, x := range xs {
		items = append(items, opts.LineData{Value: x})
	}
	return items
}

// ServeCharts serves dir over HTTP until the server fails.
func ServeCharts(dir, addr string, logger *slog.Logger) error {
	logger.Info("serving charts", slog.String("url", "http://"+addr), slog.String("dir", dir))
	return http.ListenAndServe(addr, http.FileServer(http.Dir(dir)))
}
