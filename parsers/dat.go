// Package parsers reads knapsack instance files in the two formats named in
// the design: whitespace-tokenized ".dat" files and Pisinger-style ".csv"
// files. Both yield problems/knapsack.Problem instances.
package parsers

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/janpfeifer/mhdsolve/problems/knapsack"
)

// Instance pairs a parsed problem with its source id/name and (for the csv
// format) the known optimum, echoed for reference but not consumed by the
// solver.
type Instance struct {
	ID      string
	Problem *knapsack.Problem
	// KnownOptimum is -1 when the source format doesn't carry one (.dat).
	KnownOptimum int64
}

// ParseDatLine parses one line of a .dat file: whitespace-separated tokens
// "id n cap w1 v1 w2 v2 ... wn vn", total token count 2n+3, n >= 2. A
// blank or too-short line signals end of file, matching the reference
// parser's treatment of the first empty line as EOF rather than an error.
func ParseDatLine(line string) (Instance, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 7 {
		return Instance{}, io.EOF
	}
	id := tokens[0]
	n, err := strconv.Atoi(tokens[1])
	if err != nil {
		return Instance{}, errors.Wrapf(err, "parsing item count from %q", line)
	}
	numTokens := len(tokens)
	if numTokens%2 != 1 || 2*n+3 != numTokens {
		return Instance{}, errors.Errorf("malformed .dat line: n=%d implies %d tokens, got %d: %q", n, 2*n+3, numTokens, line)
	}
	capacity, err := strconv.ParseInt(tokens[2], 10, 64)
	if err != nil {
		return Instance{}, errors.Wrapf(err, "parsing capacity from %q", line)
	}

	weights := make([]int64, n)
	values := make([]int64, n)
	for i := 0; i < n; i++ {
		w, err := strconv.ParseInt(tokens[3+2*i], 10, 64)
		if err != nil {
			return Instance{}, errors.Wrapf(err, "parsing weight %d from %q", i, line)
		}
		v, err := strconv.ParseInt(tokens[3+2*i+1], 10, 64)
		if err != nil {
			return Instance{}, errors.Wrapf(err, "parsing value %d from %q", i, line)
		}
		weights[i] = w
		values[i] = v
	}

	return Instance{ID: id, Problem: knapsack.New(weights, values, capacity), KnownOptimum: -1}, nil
}

// ParseDat reads successive .dat lines from r until EOF or a blank/short
// line, which ends the file (not an error), matching the reference parser.
func ParseDat(r io.Reader) ([]Instance, error) {
	scanner := bufio.NewScanner(r)
	var instances []Instance
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		inst, err := ParseDatLine(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return instances, err
		}
		instances = append(instances, inst)
	}
	if err := scanner.Err(); err != nil {
		return instances, errors.Wrap(err, "reading .dat file")
	}
	return instances, nil
}
