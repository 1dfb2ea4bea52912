// Command matbench multiplies random integer matrices through every routing
// policy of the concurrent engine, checks each product against the sequential
// result and compares throughput and per-worker load.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/matmul/metric"
)

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
)

func makeProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Multiplying"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func printConfiguration(rows, inner, columns, workers, iterations int, kind metric.Kind, work *Workload) {
	_, _ = bold.Println("⚙️  Configuration:")
	fmt.Printf("  Operands:         %dx%d * %dx%d\n", rows, inner, inner, columns)
	fmt.Printf("  Output cells:     %d (one task each)\n", rows*columns)
	fmt.Printf("  Workers:          %d (using %d CPU cores)\n", workers, runtime.NumCPU())
	fmt.Printf("  Iterations:       %d per routing policy\n", iterations)
	fmt.Printf("  Load counter:     %s\n", kind)
	fmt.Printf("  Sequential time:  %v\n", work.Sequential.Round(time.Microsecond))
	fmt.Println()
}

func printThroughputTable(results []RoutingResult, sequential time.Duration) {
	fmt.Println()
	_, _ = bold.Println("📊 THROUGHPUT - Routing Comparison")
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Rank", "Routing", "Median", "Cells/sec", "vs Sequential", "Verified")

	for _, r := range results {
		if r.Err != nil {
			_ = table.Append(strconv.Itoa(r.Rank), r.Routing.String(), "-", "-", "-", red.Sprint("error"))
			continue
		}

		speedup := "-"
		if r.Median > 0 {
			speedup = fmt.Sprintf("%.2fx", float64(sequential)/float64(r.Median))
		}
		verified := green.Sprint("yes")
		if !r.Verified {
			verified = red.Sprint("NO")
		}

		_ = table.Append(
			strconv.Itoa(r.Rank),
			r.Routing.String(),
			r.Median.Round(time.Microsecond).String(),
			fmt.Sprintf("%.0f", r.CellsPerSec),
			speedup,
			verified,
		)
	}

	_ = table.Render()
}

func printLoadTable(results []RoutingResult, workers int) {
	fmt.Println()
	_, _ = bold.Println("⚖️  WORKER LOAD - Cells per worker")
	fmt.Println()

	header := []any{"Routing"}
	for w := range workers {
		header = append(header, fmt.Sprintf("w%d", w))
	}
	header = append(header, "Max/Mean")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header...)

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		row := []any{r.Routing.String()}
		for _, n := range workerLoads(r.Load, workers) {
			row = append(row, strconv.FormatInt(n, 10))
		}
		row = append(row, fmt.Sprintf("%.2f", imbalance(r.Load, workers)))
		_ = table.Append(row...)
	}

	_ = table.Render()
}

func main() {
	enableWindowsANSI()

	rowsFlag := flag.Int("rows", 128, "Rows of the left operand")
	innerFlag := flag.Int("inner", 64, "Columns of the left operand and rows of the right operand")
	colsFlag := flag.Int("cols", 128, "Columns of the right operand")
	workersFlag := flag.Int("workers", 0, "Number of workers (0 = number of CPUs)")
	iterationsFlag := flag.Int("iterations", 3, "Iterations per routing policy; the median is reported")
	routingFlag := flag.String("routing", "", "Run a single routing policy (round-robin, hash, product). If empty, runs all")
	metricFlag := flag.String("metric", string(metric.KindSharded), "Load counter implementation (mutex, rwlock, sharded)")
	seedFlag := flag.Int64("seed", 1, "Seed for the random operands")
	timeoutFlag := flag.Duration("timeout", 0, "Bound every multiplication (0 = no bound)")
	plainFlag := flag.Bool("plain", false, "Disable colored output")
	ciFlag := flag.Bool("ci", false, "CI mode: no progress bar, one line per run")
	flag.Parse()

	if *plainFlag {
		color.NoColor = true
	}

	if *rowsFlag < 0 || *innerFlag < 0 || *colsFlag < 0 {
		_, _ = red.Println("Error: dimensions must be non-negative")
		os.Exit(2)
	}

	kind, err := metric.ParseKind(*metricFlag)
	if err != nil {
		_, _ = red.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	routings, err := selectRoutings(*routingFlag)
	if err != nil {
		_, _ = red.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	workers := *workersFlag
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	iterations := max(*iterationsFlag, 1)

	work, err := newWorkload(*seedFlag, *rowsFlag, *innerFlag, *colsFlag)
	if err != nil {
		_, _ = red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printConfiguration(*rowsFlag, *innerFlag, *colsFlag, workers, iterations, kind, work)

	_, _ = bold.Println("Running Benchmarks...")
	fmt.Println()

	var bar *progressbar.ProgressBar
	if !*ciFlag {
		bar = makeProgressBar(len(routings) * iterations)
	}

	cells := *rowsFlag * *colsFlag
	results := make([]RoutingResult, 0, len(routings))

	for _, routing := range routings {
		runs := make([]RunResult, 0, iterations)
		for iter := range iterations {
			if bar != nil {
				bar.Describe(fmt.Sprintf("Testing: %s", routing))
			}

			run := newRunner(routing, work, workers, kind, *timeoutFlag).Run(bar)
			runs = append(runs, run)

			if *ciFlag {
				fmt.Printf("  %-12s iteration %d: %v verified=%t err=%v\n",
					routing, iter+1, run.Elapsed.Round(time.Microsecond), run.Verified, run.Err)
			}
			runtime.GC()
		}

		if iterations > 1 {
			lo, median, hi := timeStats(runs)
			fmt.Printf("    %s  Min: %v | Median: %v | Max: %v\n", routing,
				lo.Round(time.Microsecond), median.Round(time.Microsecond), hi.Round(time.Microsecond))
		}
		results = append(results, summarize(routing, cells, runs))
	}

	rank(results)
	printThroughputTable(results, work.Sequential)
	printLoadTable(results, workers)

	failed := false
	for _, r := range results {
		if r.Err != nil {
			_, _ = red.Printf("%s failed: %v\n", r.Routing, r.Err)
			failed = true
		} else if !r.Verified {
			_, _ = red.Printf("%s produced a wrong product\n", r.Routing)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}

	fmt.Println()
	_, _ = green.Println("All products match the sequential result.")
}
