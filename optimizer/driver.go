package optimizer

import (
	"math/rand"
	"time"

	"k8s.io/klog/v2"
)

// DefaultGlobalTimeLimit is the hard ceiling on a solve, distinct from the
// per-improvement limit: a run that keeps finding marginal improvements
// still stops here.
const DefaultGlobalTimeLimit = 60 * time.Second

// TraceWriter receives progress events from FindBestSolution: one "micro"
// call per iteration, and one "macro" call when the run ends. Implementations
// must tolerate being nil (the driver checks before calling).
type TraceWriter interface {
	// WriteMicro reports, for the partial just popped: elapsed time since
	// the start of the run, the visit count (iteration number), the
	// solver's current queue size, the partial's own score and best_score,
	// and the incumbent's score so far.
	WriteMicro(elapsed time.Duration, visits, queueSize int, currentScore, currentBound, bestScore int64)
	WriteMacro(summary RunSummary)
}

// RunSummary is the record handed to WriteMacro once at the end of a run.
// CSVTrace writes eight of its fields, mirroring the reference
// implementation's macrotrace.csv layout: the returned solution's, solver's
// and problem's names, then elapsed time, visitation count, queue size,
// score and best_score. ImprovedAt and TimedOut are not written by CSVTrace.
type RunSummary struct {
	SolutionName string
	SolverName   string
	ProblemName  string
	Elapsed      time.Duration
	Iterations   int
	QueueSize    int
	BestScore    int64
	BestBest     int64
	ImprovedAt   time.Duration
	TimedOut     bool
}

// FindBestSolution is the unified branch-and-bound driver every solver
// family plugs into. It pushes problem.StartingSolution(), then repeatedly
// pops a partial solution, records it if complete, or expands it via
// solver.ChildrenOfSolution when it can still beat the incumbent. The
// search stops when the solver reports IsFinished, L elapses since the last
// improvement, or G elapses since the start (0 disables the corresponding
// limit; G defaults to DefaultGlobalTimeLimit when negative).
func FindBestSolution(problem Problem, solver Solver, L time.Duration, G time.Duration, trace TraceWriter, rng *rand.Rand) Solution {
	if G < 0 {
		G = DefaultGlobalTimeLimit
	}

	solver.StoreBestSolution(problem.RandomSolution(rng))
	solver.Push(problem.StartingSolution())

	start := time.Now()
	lastImprovement := start
	iterations := 0
	timedOut := false

	for {
		partial, ok := solver.Pop()
		if !ok {
			break
		}
		iterations++

		if problem.SolutionIsComplete(partial) {
			if solver.NewBestSolution(problem, partial) {
				lastImprovement = time.Now()
				if klog.V(1).Enabled() {
					klog.V(1).Infof("%s/%s: improved to score=%d after %d iterations (%s elapsed)",
						problem.Name(), solver.Name(), solver.BestSolution().Score(), iterations, time.Since(start))
				}
			}
		} else if problem.CanBeBetterThan(partial, solver.BestSolution()) {
			for _, child := range solver.ChildrenOfSolution(partial, problem) {
				if problem.SolutionIsComplete(child) {
					if solver.NewBestSolution(problem, child) {
						lastImprovement = time.Now()
					}
				} else if problem.CanBeBetterThan(child, solver.BestSolution()) {
					solver.Push(child)
				}
			}
		}

		if trace != nil {
			trace.WriteMicro(time.Since(start), iterations, solver.NumberOfSolutions(),
				partial.Score(), partial.BestScore(), solver.BestSolution().Score())
		}
		if klog.V(2).Enabled() {
			klog.V(2).Infof("%s/%s: iteration=%d queued=%d best=%d partial=%s",
				problem.Name(), solver.Name(), iterations, solver.NumberOfSolutions(), solver.BestSolution().Score(), partial.Readable())
		}

		if solver.IsFinished() {
			break
		}
		if L > 0 && time.Since(lastImprovement) > L {
			timedOut = true
			break
		}
		if G > 0 && time.Since(start) > G {
			timedOut = true
			break
		}
	}

	best := solver.BestSolution()
	if trace != nil {
		trace.WriteMacro(RunSummary{
			SolutionName: best.Name(),
			SolverName:   solver.Name(),
			ProblemName:  problem.Name(),
			Elapsed:      time.Since(start),
			Iterations:   iterations,
			QueueSize:    solver.NumberOfSolutions(),
			BestScore:    best.Score(),
			BestBest:     best.BestScore(),
			ImprovedAt:   lastImprovement.Sub(start),
			TimedOut:     timedOut,
		})
	}
	return best
}
