package main

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/matmul/matrix"
	"github.com/utkarsh5026/matmul/metric"
)

// Workload is one pair of operands and their reference product.
type Workload struct {
	A, B       *matrix.Matrix[int]
	Want       *matrix.Matrix[int]
	Sequential time.Duration
}

// RunResult is the outcome of one concurrent multiplication.
type RunResult struct {
	Elapsed  time.Duration
	Verified bool
	Load     map[string]int64
	Err      error
}

// RoutingResult aggregates the iterations of one routing policy.
type RoutingResult struct {
	Routing     matrix.Routing
	Median      time.Duration
	CellsPerSec float64
	Verified    bool
	Load        map[string]int64
	Err         error
	Rank        int
}

// Runner multiplies a workload through one routing policy.
type Runner struct {
	routing matrix.Routing
	workers int
	kind    metric.Kind
	timeout time.Duration
	work    *Workload
}

func newRunner(r matrix.Routing, work *Workload, workers int, kind metric.Kind, timeout time.Duration) *Runner {
	return &Runner{
		routing: r,
		workers: workers,
		kind:    kind,
		timeout: timeout,
		work:    work,
	}
}

func randomMatrix(rng *rand.Rand, rows, columns int) *matrix.Matrix[int] {
	data := make([]int, rows*columns)
	for i := range data {
		data[i] = rng.Intn(201) - 100
	}
	return matrix.MustNew(data, rows, columns)
}

// newWorkload builds random rows x inner and inner x columns operands and
// computes their product sequentially.
func newWorkload(seed int64, rows, inner, columns int) (*Workload, error) {
	rng := rand.New(rand.NewSource(seed))
	a := randomMatrix(rng, rows, inner)
	b := randomMatrix(rng, inner, columns)

	start := time.Now()
	want, err := matrix.MultiplySequential(a, b)
	if err != nil {
		return nil, err
	}

	return &Workload{A: a, B: b, Want: want, Sequential: time.Since(start)}, nil
}

// Run performs one multiplication and checks it against the reference.
func (r *Runner) Run(bar *progressbar.ProgressBar) RunResult {
	counter, err := metric.New(r.kind)
	if err != nil {
		return RunResult{Err: err}
	}

	opts := []matrix.Option{
		matrix.WithWorkerCount(r.workers),
		matrix.WithRouting(r.routing),
		matrix.WithMetric(counter),
	}
	if r.timeout > 0 {
		opts = append(opts, matrix.WithTimeout(r.timeout))
	}

	start := time.Now()
	got, err := matrix.MultiplyConcurrent(context.Background(), r.work.A, r.work.B, opts...)
	elapsed := time.Since(start)

	if bar != nil {
		_ = bar.Add(1)
	}

	if err != nil {
		return RunResult{Elapsed: elapsed, Err: err}
	}

	return RunResult{
		Elapsed:  elapsed,
		Verified: r.work.Want.Equal(got),
		Load:     counter.Snapshot(),
	}
}

// summarize reduces the iterations of one routing policy to their median.
// The load of the median run is reported.
func summarize(routing matrix.Routing, cells int, runs []RunResult) RoutingResult {
	res := RoutingResult{Routing: routing, Verified: true}
	if len(runs) == 0 {
		res.Verified = false
		return res
	}

	ok := make([]RunResult, 0, len(runs))
	for _, run := range runs {
		if run.Err != nil {
			res.Err = run.Err
			res.Verified = false
			continue
		}
		res.Verified = res.Verified && run.Verified
		ok = append(ok, run)
	}
	if len(ok) == 0 {
		return res
	}

	sort.Slice(ok, func(i, j int) bool {
		return ok[i].Elapsed < ok[j].Elapsed
	})
	median := ok[len(ok)/2]

	res.Median = median.Elapsed
	res.Load = median.Load
	if median.Elapsed > 0 {
		res.CellsPerSec = float64(cells) / median.Elapsed.Seconds()
	}
	return res
}

// rank orders results fastest first; failed policies go last.
func rank(results []RoutingResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Median < results[j].Median
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

// imbalance is the busiest worker's cell count over the mean count.
// A perfectly even split gives 1.
func imbalance(load map[string]int64, workers int) float64 {
	if workers <= 0 {
		return 0
	}

	var total, busiest int64
	for w := range workers {
		n := load[matrix.WorkerKey(w)]
		total += n
		busiest = max(busiest, n)
	}
	if total == 0 {
		return 0
	}
	return float64(busiest) / (float64(total) / float64(workers))
}

// workerLoads returns the per-worker counts in worker order.
func workerLoads(load map[string]int64, workers int) []int64 {
	out := make([]int64, workers)
	for w := range out {
		out[w] = load[matrix.WorkerKey(w)]
	}
	return out
}

// selectRoutings returns the policy named by isolated, or all of them.
func selectRoutings(isolated string) ([]matrix.Routing, error) {
	if isolated == "" {
		return matrix.Routings(), nil
	}
	r, err := matrix.ParseRouting(isolated)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, matrix.Routings())
	}
	return []matrix.Routing{r}, nil
}

// timeStats returns min, median and max of the successful runs.
func timeStats(runs []RunResult) (lo, median, hi time.Duration) {
	times := make([]time.Duration, 0, len(runs))
	for _, r := range runs {
		if r.Err == nil {
			times = append(times, r.Elapsed)
		}
	}
	if len(times) == 0 {
		return 0, 0, 0
	}
	slices.Sort(times)
	return times[0], times[len(times)/2], times[len(times)-1]
}
