package optimizer

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// CSVTrace is a TraceWriter that appends to two writers: one micro-trace row
// per iteration, one macro-trace row per run, matching the field layouts in
// spec's trace schema and the reference implementation's macrotrace.csv.
type CSVTrace struct {
	micro, macro *csv.Writer
}

// NewCSVTrace wraps the given writers; either may be nil to suppress that
// half of the trace.
func NewCSVTrace(microOut, macroOut io.Writer) *CSVTrace {
	t := &CSVTrace{}
	if microOut != nil {
		t.micro = csv.NewWriter(microOut)
	}
	if macroOut != nil {
		t.macro = csv.NewWriter(macroOut)
	}
	return t
}

// WriteMicro appends one row: time-ns, visit-count, queue-size,
// current-score, current-bound, best-score.
func (t *CSVTrace) WriteMicro(elapsed time.Duration, visits, queueSize int, currentScore, currentBound, bestScore int64) {
	if t.micro == nil {
		return
	}
	_ = t.micro.Write([]string{
		strconv.FormatInt(elapsed.Nanoseconds(), 10),
		strconv.Itoa(visits),
		strconv.Itoa(queueSize),
		strconv.FormatInt(currentScore, 10),
		strconv.FormatInt(currentBound, 10),
		strconv.FormatInt(bestScore, 10),
	})
	t.micro.Flush()
}

// WriteMacro appends the eight-field end-of-run summary, in the reference
// implementation's order: solution name, solver name, problem name, elapsed
// nanoseconds, visitations, queue size, score, best score.
func (t *CSVTrace) WriteMacro(s RunSummary) {
	if t.macro == nil {
		return
	}
	_ = t.macro.Write([]string{
		s.SolutionName,
		s.SolverName,
		s.ProblemName,
		strconv.FormatInt(s.Elapsed.Nanoseconds(), 10),
		strconv.Itoa(s.Iterations),
		strconv.Itoa(s.QueueSize),
		strconv.FormatInt(s.BestScore, 10),
		strconv.FormatInt(s.BestBest, 10),
	})
	t.macro.Flush()
}
