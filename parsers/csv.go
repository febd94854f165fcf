package parsers

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/janpfeifer/mhdsolve/problems/knapsack"
)

// ParseCSV reads zero or more Pisinger-style knapsack records from r. Each
// record is: a "name" header line, then "n <int>", "c <int>", "z <int>",
// "time <float>" header lines, then n comma-separated
// "index,profit,weight,solution_bit" rows, then a five-dash separator line,
// then a blank line. z (the known optimum) is echoed on the returned
// Instance but not used by the solver.
func ParseCSV(r io.Reader) ([]Instance, error) {
	scanner := bufio.NewScanner(r)
	var instances []Instance
	for {
		inst, ok, err := parseOneCSVRecord(scanner)
		if err != nil {
			return instances, err
		}
		if !ok {
			break
		}
		instances = append(instances, inst)
	}
	if err := scanner.Err(); err != nil {
		return instances, errors.Wrap(err, "reading .csv file")
	}
	return instances, nil
}

func parseOneCSVRecord(scanner *bufio.Scanner) (Instance, bool, error) {
	name, ok := nextNonBlank(scanner)
	if !ok {
		return Instance{}, false, nil
	}

	nInt64, err := readIntHeader(scanner, "n")
	if err != nil {
		return Instance{}, false, err
	}
	n := int(nInt64)
	capacity, err := readIntHeader(scanner, "c")
	if err != nil {
		return Instance{}, false, err
	}
	knownOptimum, err := readIntHeader(scanner, "z")
	if err != nil {
		return Instance{}, false, err
	}
	if !scanner.Scan() {
		return Instance{}, false, errors.New("csv record ended before a time header line")
	}
	if !strings.HasPrefix(strings.TrimSpace(scanner.Text()), "time") {
		return Instance{}, false, errors.Errorf("expected time header, got %q", scanner.Text())
	}

	weights := make([]int64, n)
	values := make([]int64, n)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return Instance{}, false, errors.Errorf("csv record ended after %d of %d item rows", i, n)
		}
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 4 {
			return Instance{}, false, errors.Errorf("malformed item row %q", scanner.Text())
		}
		profit, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			return Instance{}, false, errors.Wrapf(err, "parsing profit from %q", scanner.Text())
		}
		weight, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return Instance{}, false, errors.Wrapf(err, "parsing weight from %q", scanner.Text())
		}
		weights[i] = weight
		values[i] = profit
	}

	// Separator line ("-----") then a blank line close the record.
	if scanner.Scan() {
		_ = scanner.Text()
	}
	if scanner.Scan() {
		_ = scanner.Text()
	}

	return Instance{
		ID:           name,
		Problem:      knapsack.New(weights, values, capacity),
		KnownOptimum: knownOptimum,
	}, true, nil
}

func nextNonBlank(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

// readIntHeader reads a line of the form "<key> <int>" and returns the int.
func readIntHeader(scanner *bufio.Scanner, key string) (int64, error) {
	if !scanner.Scan() {
		return 0, errors.Errorf("csv record ended before %q header", key)
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 2 || fields[0] != key {
		return 0, errors.Errorf("expected %q header, got %q", key, scanner.Text())
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %q header value from %q", key, scanner.Text())
	}
	return v, nil
}
