// Package inspect is the image inspection engine: per-file format
// sniffing, metadata extraction, JPEG quality estimation and rule
// evaluation, plus the concurrent run loop that folds file results into a
// run summary. It emits structured data only; rendering, localization and
// report writing belong to the layers around it.
package inspect

import (
	"context"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/BlueVenn6/image-quality-checker/internal/walker"
)

// Run audits every candidate file under root and returns the run summary
// together with the finalized file results in traversal order. Per-file
// problems become findings on that file; only a failure to enumerate the
// root aborts the run. An empty candidate list is a passing run with zero
// files, not an error; callers that want to treat it as one (the CLI does)
// decide that themselves.
//
// Files are inspected by a pool of workers. Results are re-ordered to the
// traversal order before the aggregator fold, so repeated runs over an
// unchanged tree produce identical output no matter how the workers
// interleave. Progress deltas are streamed to updates when it is non-nil;
// the caller owns the channel and closes it after Run returns.
func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (RunSummary, []FileResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	candidates, err := walker.Walk(root, opts.Recursive)
	if err != nil {
		return RunSummary{}, nil, err
	}
	logger.Debug("enumerated candidates", "root", root, "count", len(candidates), "recursive", opts.Recursive)

	if updates != nil {
		updates <- ProgressUpdate{TotalDelta: len(candidates)}
	}
	if len(candidates) == 0 {
		return RunSummary{}, nil, nil
	}

	inspector := NewInspector(opts.Decoder, opts.Thresholds)

	jobs := make(chan Job)
	results := make(chan Result)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			runWorker(ctx, inspector, jobs, results)
		}()
	}

	ordered := make([]FileResult, len(candidates))
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			ordered[res.Index] = res.File
			if updates != nil {
				update := ProgressUpdate{ProcessedDelta: 1, FindingDelta: len(res.File.Findings)}
				if res.File.WorstSeverity() == SeverityError {
					update.CorruptDelta = 1
				}
				updates <- update
			}
			logger.Debug("inspected file",
				"path", res.File.Path,
				"format", res.File.DetectedFormat.String(),
				"findings", len(res.File.Findings))
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		for i, path := range candidates {
			job := Job{Index: i, Path: path}
			if ctx == nil {
				jobs <- job
				continue
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				producerErr <- ctx.Err()
				return
			}
		}
		producerErr <- nil
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := <-producerErr; err != nil {
		return RunSummary{}, nil, err
	}
	if ctx != nil && ctx.Err() != nil {
		// Cancellation between the last job and the last result can leave
		// holes in ordered; an aborted run surfaces no results at all.
		return RunSummary{}, nil, ctx.Err()
	}

	// Fold in traversal order; the aggregator is the single stateful
	// component of the run.
	agg := NewAggregator()
	for _, res := range ordered {
		agg.Add(res)
	}

	summary := agg.Summary()
	logger.Info("run complete",
		"files", summary.TotalFiles,
		"warnings", summary.Counts.Warn,
		"errors", summary.Counts.Error,
		"status", summary.Status.String())

	return summary, agg.Results(), nil
}

func runWorker(ctx context.Context, inspector *Inspector, jobs <-chan Job, results chan<- Result) {
	for job := range jobs {
		if ctx != nil && ctx.Err() != nil {
			return
		}
		results <- Result{Index: job.Index, File: inspector.InspectFile(job.Path)}
	}
}
