package parallel

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/msalah0e/flowdesigner/internal/ui"
)

// Out receives progress lines. Set it to io.Discard to run quietly.
var Out io.Writer = os.Stdout

// Result holds the outcome of a parallel task.
type Result struct {
	Name    string
	OK      bool
	Err     error
	Output  string
	Elapsed time.Duration
}

// Task is a function that runs in parallel.
type Task struct {
	Name string
	Fn   func(ctx context.Context) (string, error)
}

// Run executes tasks in parallel with the given concurrency limit.
// Returns results in the order tasks were submitted. Tasks not yet started
// when ctx is cancelled report the context error.
func Run(ctx context.Context, tasks []Task, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 4
	}

	results := make([]Result, len(tasks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				mu.Lock()
				results[i] = Result{Name: task.Name, Err: err}
				mu.Unlock()
				return nil
			}

			start := time.Now()
			output, err := task.Fn(gctx)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = Result{Name: task.Name, OK: false, Err: err, Output: output, Elapsed: elapsed}
				fmt.Fprintf(Out, "  %s %s %s\n", ui.StatusIcon(false), task.Name, ui.Bad.Sprintf("(%v)", err))
				// Show truncated output to help diagnose failures
				if output = strings.TrimSpace(output); output != "" {
					for _, line := range truncateLines(output, 5) {
						fmt.Fprintf(Out, "      %s\n", ui.Subtle.Sprint(line))
					}
				}
			} else {
				results[i] = Result{Name: task.Name, OK: true, Output: output, Elapsed: elapsed}
				fmt.Fprintf(Out, "  %s %s %s\n", ui.StatusIcon(true), task.Name, ui.Subtle.Sprintf("%.1fs", elapsed.Seconds()))
			}

			return nil // results are collected, the group never fails
		})
	}

	_ = g.Wait()
	return results
}

// truncateLines splits text into lines and returns at most n lines.
func truncateLines(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return lines
	}
	out := lines[:n]
	out = append(out, fmt.Sprintf("... (%d more lines)", len(lines)-n))
	return out
}
