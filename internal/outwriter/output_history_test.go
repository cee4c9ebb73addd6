package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/huangsam/maturity/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() schema.HistoryReport {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 9, 0, 0, 0, time.UTC) }
	return schema.HistoryReport{
		SubjectID: "acme",
		Points: []schema.HistoryPoint{
			{ScoreRecord: schema.ScoreRecord{ID: 1, SubjectID: "acme", Score: 2.5, Bracket: schema.Bracket20, RecordedAt: day(1)}},
			{ScoreRecord: schema.ScoreRecord{ID: 4, SubjectID: "acme", Score: 3.5, Bracket: schema.Bracket30, RecordedAt: day(15), IssueCount: 2}, Delta: 1},
			{ScoreRecord: schema.ScoreRecord{ID: 9, SubjectID: "acme", Score: 3.0, Bracket: schema.Bracket30, RecordedAt: day(29)}, Delta: -0.5},
		},
	}
}

func TestWriteHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistoryTable(&buf, sampleHistory(), createFormatter(1)))

	out := buf.String()
	assert.Contains(t, out, "2025-01-15")
	assert.Contains(t, out, "+1.0")
	assert.Contains(t, out, "-0.5")
	assert.Contains(t, out, "Managed")
}

func TestWriteHistoryTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistoryTable(&buf, schema.HistoryReport{SubjectID: "acme"}, createFormatter(1)))
	assert.Equal(t, "No scores recorded for acme\n", buf.String())
}

func TestWriteHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistoryCSV(&buf, sampleHistory(), createFormatter(1)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "delta", records[0][6])
	assert.Equal(t, []string{"acme", "4", "2025-01-15T09:00:00Z", "0.0", "3.0", "3.5", "1.0", "2", "0"}, records[2])
}

func TestFormatDelta(t *testing.T) {
	f := createFormatter(1)
	assert.Equal(t, "+0.5", formatDelta(0.5, f))
	assert.Equal(t, "-1.0", formatDelta(-1, f))
	assert.Equal(t, "0.0", formatDelta(0, f))
}
