package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/clack-cli/clack/internal/api"
)

// ErrNoHeader indicates the tabular input had no header row.
var ErrNoHeader = errors.New("batch input has no header row")

// Result records the outcome of one row's call. ID is the value of the
// row's first column.
type Result struct {
	ID string `json:"id"`
	OK bool   `json:"success"`
}

// Outcome aggregates a batch run.
type Outcome struct {
	// IDHeader is the name of the first input column, used to label the
	// identifier column in result tables.
	IDHeader string
	// Results holds one entry per data row, in input order.
	Results []Result
	// Succeeded and Failed count the result states.
	Succeeded int
	Failed    int
}

// Runner drives the templating engine and the API dispatch for every data
// row of a CSV source. Rows run strictly in file order, one at a time; a
// row's failure never aborts the batch.
type Runner struct {
	Caller api.Caller
	Config *api.CallConfig

	// DryRun skips dispatch; rows are templated, parsed and recorded as
	// successful.
	DryRun bool

	// Progress, when set, is called after each row with the number of rows
	// processed so far and the total. Advisory only.
	Progress func(done, total int)
}

// Run executes the batch. The first row of src provides the placeholder
// names; each following row is substituted into the endpoint and parameter
// templates and dispatched. The returned results preserve input row order.
func (r *Runner) Run(ctx context.Context, src io.Reader, endpointTmpl, paramsTmpl string) (*Outcome, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := records[0]
	rows := records[1:]
	total := len(rows)

	outcome := &Outcome{
		IDHeader: header[0],
		Results:  make([]Result, 0, total),
	}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		if len(row) == 0 {
			continue
		}

		values := make(map[string]string, len(header))
		for col, cell := range row {
			if col < len(header) {
				values[header[col]] = cell
			}
		}

		ok := r.runRow(ctx, endpointTmpl, paramsTmpl, values)
		outcome.Results = append(outcome.Results, Result{ID: row[0], OK: ok})
		if ok {
			outcome.Succeeded++
		} else {
			outcome.Failed++
		}

		if r.Progress != nil {
			r.Progress(i+1, total)
		}
	}
	return outcome, nil
}

// runRow templates, parses and dispatches a single row. Any failure is the
// row's failure.
func (r *Runner) runRow(ctx context.Context, endpointTmpl, paramsTmpl string, values map[string]string) bool {
	endpoint := r.Config.NormalizeEndpoint(Expand(endpointTmpl, values))

	params, err := api.ParseParams(Expand(paramsTmpl, values))
	if err != nil {
		return false
	}

	if r.DryRun {
		return true
	}

	resp, err := r.Caller.Call(ctx, endpoint, params)
	if err != nil {
		return false
	}
	return resp.OK
}
