// Command mhdsolve is the CLI driver over the optimizer engine: it
// generates or loads subset-sum/knapsack instances and solves each with one
// or more of the five solver families, reporting the best score found.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/mhdsolve/internal/generics"
	"github.com/janpfeifer/mhdsolve/internal/profilers"
	"github.com/janpfeifer/mhdsolve/internal/ui/spinning"
	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/parsers"
	"github.com/janpfeifer/mhdsolve/problems/knapsack"
	"github.com/janpfeifer/mhdsolve/solvers/bestfirst"
	"github.com/janpfeifer/mhdsolve/solvers/bfmhd"
	"github.com/janpfeifer/mhdsolve/solvers/depthfirst"
	"github.com/janpfeifer/mhdsolve/solvers/mcts"
	"github.com/janpfeifer/mhdsolve/solvers/mhdmc"
)

const (
	algDepthFirst  = 1 << 0
	algBestFirst   = 1 << 1
	algMCTS        = 1 << 2
	algMHDMC       = 1 << 3
	algBestFirstMC = 1 << 4
)

var (
	flagSize        = flag.Int("size", 42, "Problem dimension (number of items).")
	flagCapacityPct = flag.Float64("capacity", 0, "Knapsack capacity as a percentage [0,100) of the weights' sum; 0 uses the random instance's own capacity.")
	flagTime        = flag.Float64("time", 1.0, "Per-improvement convergence deadline, in seconds.")
	flagGlobalTime  = flag.Float64("global_time", optimizer.DefaultGlobalTimeLimit.Seconds(), "Global deadline per solve, in seconds; 0 disables it.")
	flagAlgorithms  = flag.Int("algorithms", 31, "Bitmask: 1=depth-first, 2=best-first, 4=MCTS, 8=MHD-MC, 16=best-first-MHD.")
	flagNumProblems = flag.Int("num_problems", 0, "Cap on problems per source; default 1000 for file input, 1 for random instances.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0, ignore GOMAXPROCS and solve these many problems simultaneously.")
	flagSeed        = flag.Int64("seed", 0, "RNG seed; 0 picks a time-based seed.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	profilers.Setup(ctx)
	defer profilers.OnQuit()

	must.M(run(ctx, flag.Args()))
}

func run(ctx context.Context, files []string) error {
	if *flagSize <= 0 {
		return errors.Errorf("--size must be positive, got %d", *flagSize)
	}
	if *flagCapacityPct < 0 || *flagCapacityPct >= 100 {
		return errors.Errorf("--capacity must be in [0,100), got %g", *flagCapacityPct)
	}

	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	seedRng := rand.New(rand.NewSource(seed))

	var instances []parsers.Instance
	var err error
	if len(files) > 0 {
		instances, err = loadInstancesFromFiles(files)
	} else {
		instances, err = loadRandomInstance(seedRng)
	}
	if err != nil {
		return err
	}

	parallelism := *flagParallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	bar := progressbar.Default(int64(len(instances)), "solving")
	results := make([]instanceResult, len(instances))

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, inst := range instances {
		i, inst := i, inst
		// Each goroutine gets its own *rand.Rand: math/rand.Rand is not
		// safe for concurrent use, and sharing the seed RNG across workers
		// would also make results depend on scheduling order.
		instRng := rand.New(rand.NewSource(seed + int64(i) + 1))
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = solveInstance(inst, instRng)
			return bar.Add(1)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSummary(results)
	return nil
}

// loadRandomInstance generates a single random knapsack instance of --size
// when no files are given on the command line.
func loadRandomInstance(rng *rand.Rand) ([]parsers.Instance, error) {
	p := knapsack.NewRandom(*flagSize, rng)
	if *flagCapacityPct > 0 {
		p = knapsack.New(p.Weights(), p.Values(), capacityFromPercent(*flagCapacityPct, p.Weights()))
	}
	return []parsers.Instance{{ID: "random", Problem: p, KnownOptimum: -1}}, nil
}

// loadInstancesFromFiles reads instances from the given files (.dat or
// .csv; directories are traversed one level), capped at --num_problems
// (default 1000).
func loadInstancesFromFiles(files []string) ([]parsers.Instance, error) {
	limit := *flagNumProblems
	if limit <= 0 {
		limit = 1000
	}

	var paths []string
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, f)
			continue
		}
		entries, err := os.ReadDir(f)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				paths = append(paths, filepath.Join(f, e.Name()))
			}
		}
	}

	var instances []parsers.Instance
	seenIDs := generics.MakeSet[string]()
	for _, path := range paths {
		if len(instances) >= limit {
			break
		}
		more, err := parseFile(path)
		if err != nil {
			klog.Warningf("skipping %s: %v", path, err)
			continue
		}
		for _, inst := range more {
			if seenIDs.Has(inst.ID) {
				klog.Warningf("duplicate instance id %q in %s, keeping first occurrence", inst.ID, path)
				continue
			}
			seenIDs.Insert(inst.ID)
			instances = append(instances, inst)
		}
	}
	if len(instances) > limit {
		instances = instances[:limit]
	}
	return instances, nil
}

func parseFile(path string) ([]parsers.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.HasSuffix(path, ".csv") {
		return parsers.ParseCSV(f)
	}
	return parsers.ParseDat(f)
}

func capacityFromPercent(pct float64, weights []int64) int64 {
	var total int64
	for _, w := range weights {
		total += w
	}
	return int64(pct / 100.0 * float64(total))
}

type instanceResult struct {
	id        string
	algorithm string
	score     int64
	best      int64
	elapsed   time.Duration
}

// solveInstance runs every algorithm named by --algorithms against one
// instance, catching fatal kernel/memory panics per-problem so a single
// malformed or pathological instance does not abort the whole batch.
func solveInstance(inst parsers.Instance, rng *rand.Rand) instanceResult {
	var out instanceResult
	out.id = inst.ID
	err := exceptions.TryCatch[error](func() {
		if !inst.Problem.IsLegal() {
			klog.Warningf("%s: illegal instance, skipping", inst.ID)
			return
		}
		L := time.Duration(*flagTime * float64(time.Second))
		G := time.Duration(*flagGlobalTime * float64(time.Second))

		mask := *flagAlgorithms
		start := time.Now()
		var best optimizer.Solution

		run := func(name string, solver optimizer.Solver) {
			sol := optimizer.FindBestSolution(inst.Problem, solver, L, G, nil, rng)
			if best == nil || inst.Problem.BetterThan(sol, best) {
				best = sol
				out.algorithm = name
			}
		}

		if mask&algDepthFirst != 0 {
			run("DepthFirst", depthfirst.New(inst.Problem.ProblemSize()))
		}
		if mask&algBestFirst != 0 {
			run("BestFirst", bestfirst.New(inst.Problem.ProblemSize()))
		}
		if mask&algMCTS != 0 {
			run("MCTS", mcts.New(inst.Problem, 0, false, rng))
			run("MCTS-FullMonte", mcts.New(inst.Problem, 0, true, rng))
		}
		if mask&algMHDMC != 0 {
			run("MHD-MC", mhdmc.New(inst.Problem, false, rng))
			run("MHD-MC-FullMonte", mhdmc.New(inst.Problem, true, rng))
		}
		if mask&algBestFirstMC != 0 {
			run("BestFirstMHD", bfmhd.New(inst.Problem))
		}

		out.elapsed = time.Since(start)
		if best != nil {
			out.score = best.Score()
			out.best = best.BestScore()
		}
	})
	if err != nil {
		klog.Errorf("%s: %v", inst.ID, err)
	}
	return out
}

func printSummary(results []instanceResult) {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	rowStyle := lipgloss.NewStyle().Padding(0, 1)

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-20s %-18s %10s %10s %10s", "instance", "algorithm", "score", "best", "elapsed")))
	var totalScore int64
	for _, r := range results {
		fmt.Println(rowStyle.Render(fmt.Sprintf("%-20s %-18s %10s %10s %10s",
			r.id, r.algorithm, humanize.Comma(r.score), humanize.Comma(r.best), r.elapsed.Round(time.Millisecond))))
		totalScore += r.score
	}
	fmt.Printf("\n%d instances solved, total score %s\n", len(results), humanize.Comma(totalScore))
}
