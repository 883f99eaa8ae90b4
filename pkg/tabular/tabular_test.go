package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBulkFile(t *testing.T) {
	input := `item_id,field_name,value
PVTI_1,Status,Done
PVTI_2,Estimate,3
`
	rows, err := ParseBulkFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "PVTI_1", rows[0].ItemID)
	assert.Equal(t, "Status", rows[0].FieldName)
	assert.Equal(t, "Done", rows[0].Value)

	// Source line numbers survive the header skip.
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, 3, rows[1].Line)
}

func TestParseBulkFile_NoHeader(t *testing.T) {
	rows, err := ParseBulkFile(strings.NewReader("PVTI_1,Status,Done\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Line)
}

func TestParseBulkFile_Comments(t *testing.T) {
	input := `# exported from the planning sheet
item_id,field_name,value
# mid-file comment
PVTI_1,Status,Done
`
	rows, err := ParseBulkFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Line)
}

func TestParseBulkFile_QuotedValues(t *testing.T) {
	rows, err := ParseBulkFile(strings.NewReader(`PVTI_1,Notes,"a value, with a comma"` + "\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a value, with a comma", rows[0].Value)
}

func TestParseBulkFile_ShortRecord(t *testing.T) {
	rows, err := ParseBulkFile(strings.NewReader("PVTI_1,Status\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// The missing column surfaces downstream as a validation failure.
	assert.Empty(t, rows[0].Value)
}

func TestParseBulkFile_Empty(t *testing.T) {
	rows, err := ParseBulkFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		record []string
		want   bool
	}{
		{[]string{"item_id", "field_name", "value"}, true},
		{[]string{"Item ID", "Field", "Value"}, true},
		{[]string{"ItemID"}, true},
		{[]string{"PVTI_1", "Status", "Done"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isHeader(tt.record), "record %v", tt.record)
	}
}
