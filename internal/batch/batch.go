// Package batch solves many inputs concurrently and returns their outcomes in
// input order.
package batch

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/njchilds90/stepsolver/internal/solver"
)

// Item is one solved input.
type Item struct {
	Index   int            `json:"index"`
	Input   string         `json:"input"`
	Outcome solver.Outcome `json:"outcome"`
}

// Options configures a batch run.
type Options struct {
	Workers  int       // Number of parallel workers
	Progress io.Writer // Progress bar destination; nil disables the bar
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total    int
	Solved   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// Run solves every input with s. Items are returned in input order. When ctx
// is cancelled no further inputs are dispatched; undispatched items are
// omitted from the result and ctx.Err() is returned with the items solved so
// far.
func Run(ctx context.Context, s *solver.Solver, inputs []string, opts Options) ([]Item, Summary, error) {
	start := time.Now()
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) && len(inputs) > 0 {
		workers = len(inputs)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(inputs),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Solving"),
			progressbar.OptionClearOnFinish(),
		)
	}

	work := make(chan int)
	results := make(chan Item, len(inputs))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				results <- Item{Index: i, Input: inputs[i], Outcome: s.Solve(inputs[i])}
			}
		}()
	}

	var err error
dispatch:
	for i := range inputs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case work <- i:
		}
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	slots := make([]*Item, len(inputs))
	for item := range results {
		item := item
		slots[item.Index] = &item
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	items := make([]Item, 0, len(inputs))
	summary := Summary{Total: len(inputs)}
	for _, it := range slots {
		if it == nil {
			summary.Skipped++
			continue
		}
		if it.Outcome.OK() {
			summary.Solved++
		} else {
			summary.Failed++
		}
		items = append(items, *it)
	}
	summary.Duration = time.Since(start)

	slog.Debug("batch finished",
		"total", summary.Total,
		"solved", summary.Solved,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"workers", workers)
	return items, summary, err
}
