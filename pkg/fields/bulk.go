package fields

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ghclient "github.com/goblinsan/gh-project-fields/pkg/github"
	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// RowStatus is the outcome of one bulk row.
type RowStatus string

const (
	RowUpdated     RowStatus = "updated"
	RowFailed      RowStatus = "failed"
	RowWouldUpdate RowStatus = "would-update"
)

// RowResult records one row's outcome with enough context to re-run a
// failed subset: source line, identifiers, attempted value, and the error
// kind.
type RowResult struct {
	Line      int       `json:"line"`
	ItemID    string    `json:"item_id"`
	FieldName string    `json:"field_name"`
	Value     string    `json:"value"`
	Status    RowStatus `json:"status"`
	ErrKind   string    `json:"error_kind,omitempty"`
	Err       string    `json:"error,omitempty"`
}

// BatchReport aggregates a bulk update run. Skipped blank/comment rows are
// not counted as attempted.
type BatchReport struct {
	Attempted   int         `json:"attempted"`
	Updated     int         `json:"updated"`
	Failed      int         `json:"failed"`
	WouldUpdate int         `json:"would_update,omitempty"`
	Rows        []RowResult `json:"rows"`
}

func (r *BatchReport) String() string {
	if r.WouldUpdate > 0 {
		return fmt.Sprintf("Summary: %d rows attempted, %d would update, %d failed (dry run)",
			r.Attempted, r.WouldUpdate, r.Failed)
	}
	return fmt.Sprintf("Summary: %d rows attempted, %d updated, %d failed",
		r.Attempted, r.Updated, r.Failed)
}

// interRowDelay is the client-side rate-limit floor between live remote
// mutations. It is not adaptive to rate-limit headers.
const interRowDelay = 500 * time.Millisecond

// BatchOptions configures a ProcessBatch run.
type BatchOptions struct {
	DryRun bool
}

// Processor drives bulk updates from already-parsed rows, sequentially and
// in input order. A single row's failure never aborts the batch.
type Processor struct {
	resolver *Resolver
	mutator  *Mutator
	logger   *slog.Logger

	delay time.Duration
	sleep func(time.Duration) // injectable for tests
}

// NewProcessor creates a bulk processor sharing the resolver's per-run
// metadata cache. A nil logger falls back to slog.Default().
func NewProcessor(resolver *Resolver, mutator *Mutator, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		resolver: resolver,
		mutator:  mutator,
		logger:   logger,
		delay:    interRowDelay,
		sleep:    time.Sleep,
	}
}

// ProcessBatch applies rows against a project, one at a time, in input
// order, with no reordering or deduplication. In dry-run mode no remote
// mutation is issued and valid-looking rows are counted as "would update".
func (p *Processor) ProcessBatch(ctx context.Context, projectID string, rows []types.BulkRow, opts BatchOptions) *BatchReport {
	report := &BatchReport{}

	for _, row := range rows {
		itemID := trimCell(row.ItemID)
		fieldName := trimCell(row.FieldName)
		value := trimCell(row.Value)

		// Blank rows and comment markers are not attempts.
		if itemID == "" && fieldName == "" && value == "" {
			continue
		}
		if strings.HasPrefix(itemID, "#") {
			continue
		}

		report.Attempted++
		result := RowResult{
			Line:      row.Line,
			ItemID:    itemID,
			FieldName: fieldName,
			Value:     value,
		}

		if itemID == "" || fieldName == "" || value == "" {
			result.Status = RowFailed
			result.ErrKind = "validation"
			result.Err = "missing required column (item_id, field_name, value)"
			report.Failed++
			report.Rows = append(report.Rows, result)
			p.logger.Warn("row skipped: incomplete", "line", row.Line, "item", itemID, "field", fieldName)
			continue
		}

		if opts.DryRun {
			result.Status = RowWouldUpdate
			report.WouldUpdate++
			report.Rows = append(report.Rows, result)
			p.logger.Info("dry run: would update",
				"line", row.Line, "item", itemID, "field", fieldName, "value", value)
			continue
		}

		if err := p.applyRow(ctx, projectID, itemID, fieldName, value); err != nil {
			result.Status = RowFailed
			result.ErrKind = errKind(err)
			result.Err = err.Error()
			report.Failed++
			report.Rows = append(report.Rows, result)
			p.logger.Error("row failed",
				"line", row.Line, "item", itemID, "field", fieldName, "value", value,
				"kind", result.ErrKind, "error", err)
			continue
		}

		result.Status = RowUpdated
		report.Updated++
		report.Rows = append(report.Rows, result)
		p.logger.Info("row updated",
			"line", row.Line, "item", itemID, "field", fieldName, "value", value)
		p.sleep(p.delay)
	}

	return report
}

func (p *Processor) applyRow(ctx context.Context, projectID, itemID, fieldName, value string) error {
	field, err := p.resolver.ResolveField(ctx, projectID, fieldName)
	if err != nil {
		return err
	}
	return p.mutator.SetField(ctx, projectID, itemID, field, value)
}

// trimCell strips surrounding whitespace and quote artifacts left over from
// hand-edited CSV files.
func trimCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// errKind names the error category for per-row diagnostics.
func errKind(err error) string {
	var notFound *NotFoundError
	var validation *ValidationError
	var unsupported *UnsupportedFieldTypeError
	var transport *ghclient.TransportError
	var remote *ghclient.RemoteLogicalError

	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &unsupported):
		return "unsupported_type"
	case errors.As(err, &transport):
		return "transport"
	case errors.As(err, &remote):
		return "remote"
	default:
		return "unknown"
	}
}
