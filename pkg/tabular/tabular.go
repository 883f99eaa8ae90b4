// Package tabular parses bulk-update input files into rows for the fields
// engine. The engine consumes already-split triples; all CSV concerns
// (quoting, comments, header detection) stay here.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// ParseBulkFile reads CSV records of the form item_id,field_name,value.
// Lines starting with '#' are comments. A leading header row naming the
// expected columns is skipped. Line numbers are preserved on each row so a
// failed subset can be traced back to the source file.
func ParseBulkFile(r io.Reader) ([]types.BulkRow, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []types.BulkRow
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse bulk file: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		row := types.BulkRow{Line: line}
		if len(record) > 0 {
			row.ItemID = record[0]
		}
		if len(record) > 1 {
			row.FieldName = record[1]
		}
		if len(record) > 2 {
			row.Value = record[2]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	head := strings.ToLower(strings.TrimSpace(record[0]))
	return head == "item_id" || head == "item id" || head == "itemid"
}
