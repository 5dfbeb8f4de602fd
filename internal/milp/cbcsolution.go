package milp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseCBCStatus classifies the first line of a CBC solution file, e.g.
//
//	Optimal - objective value 4.00000000
//	Stopped on time - objective value 3.00000000
//	Stopped on time (no integer solution - continuous used) - objective value 2.5
//	Infeasible - objective value 0.00000000
func ParseCBCStatus(line string) (Status, error) {
	line = strings.TrimSpace(line)
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "optimal"):
		return StatusOptimal, nil
	case strings.HasPrefix(lower, "infeasible"),
		strings.HasPrefix(lower, "integer infeasible"),
		strings.HasPrefix(lower, "linear relaxation infeasible"):
		return StatusInfeasible, nil
	case strings.HasPrefix(lower, "stopped"):
		if strings.Contains(lower, "no integer solution") {
			return StatusTimeLimitNoIncumbent, nil
		}
		return StatusTimeLimitFeasible, nil
	case line == "":
		return 0, fmt.Errorf("%w: empty status line", ErrMalformedSolution)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedStatus, line)
	}
}

// ParseCBCSolution reads a CBC solution file written with
// "-printingOptions all -solution <file>". Row entries and unknown names are
// skipped; variables missing from the file read as 0.
func ParseCBCSolution(r io.Reader, p *Problem) (*Solution, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSolution, err)
		}
		return nil, fmt.Errorf("%w: empty file", ErrMalformedSolution)
	}
	statusLine := scanner.Text()
	status, err := ParseCBCStatus(statusLine)
	if err != nil {
		return nil, err
	}

	sol := &Solution{Status: status}
	if !status.HasIncumbent() {
		return sol, nil
	}

	values := make([]float64, p.NumVars())
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		// "**" marks rows or columns with infeasibilities.
		if len(fields) > 0 && fields[0] == "**" {
			fields = fields[1:]
		}
		if len(fields) < 3 {
			continue
		}
		id, ok := p.Lookup(fields[1])
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedSolution, lineNum, err)
		}
		values[id] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSolution, err)
	}

	sol.Values = values
	sol.Objective = p.ObjectiveValue(values)
	return sol, nil
}
