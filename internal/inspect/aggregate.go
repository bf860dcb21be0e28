package inspect

import "sync"

// Aggregator folds finalized file results into a run summary. It is the
// only stateful piece of a run: workers may call Add concurrently, the
// fold itself is serialized by the mutex. Each result is counted exactly
// once and never re-evaluated, so feeding a suffix of files into a fresh
// Aggregator resumes a run without double counting.
type Aggregator struct {
	mu      sync.Mutex
	results []FileResult
	summary RunSummary
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add folds one completed file into the summary. Call order decides the
// positional order of Results, so concurrent callers must re-sort by
// traversal order before emitting a report.
func (a *Aggregator) Add(res FileResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.results = append(a.results, res)
	a.summary.TotalFiles++
	for _, f := range res.Findings {
		a.summary.Counts.add(f.Severity)
		if f.Severity > a.summary.Worst {
			a.summary.Worst = f.Severity
		}
	}
	a.summary.Status = statusFor(a.summary.Counts)
}

// Results returns the folded file results in the order they were added.
func (a *Aggregator) Results() []FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]FileResult, len(a.results))
	copy(out, a.results)
	return out
}

// Summary returns the current run-level fold.
func (a *Aggregator) Summary() RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.summary
}

func statusFor(c SeverityCounts) RunStatus {
	switch {
	case c.Error > 0:
		return StatusError
	case c.Warn > 0:
		return StatusWarn
	default:
		return StatusPass
	}
}
