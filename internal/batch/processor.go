// Package batch renders frame scenes to image files on a worker pool.
package batch

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"handpose/internal/render"
)

// Config holds the shared settings of a batch run.
type Config struct {
	OutputDir string
	Format    string
	Options   render.Options
	Workers   int
	// Progress receives periodic progress lines; nil disables them.
	Progress io.Writer
	// Interval between progress lines, default 2s.
	Interval time.Duration
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Index   int
	Image   string // relative to OutputDir
	Success bool
	Error   string
}

// FrameName is the output file name of a frame.
func FrameName(index int, format string) string {
	if format == "" {
		format = render.FormatWebP
	}
	return fmt.Sprintf("frame_%06d.%s", index, format)
}

// Run renders all scenes using a worker pool. Results are in scene order.
func Run(cfg Config, scenes []render.Scene) []Result {
	total := len(scenes)
	results := make([]Result, total)
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	if cfg.Progress != nil {
		reporter.Add(1)
		go func() {
			defer reporter.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = renderScene(cfg, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range scenes {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)
	reporter.Wait()

	return results
}

func renderScene(cfg Config, scene render.Scene) Result {
	name := FrameName(scene.Index, cfg.Format)
	res := Result{Index: scene.Index, Image: name}

	img := render.Render(scene, cfg.Options)
	if err := render.Save(filepath.Join(cfg.OutputDir, name), img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

// Failed returns the unsuccessful results.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
