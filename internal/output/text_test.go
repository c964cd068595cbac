package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/sessnotes/internal/domain"
)

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf)

	require.NoError(t, w.WriteSplit(&domain.SplitEvent{Session: 3, Path: "tag-Session3.md"}))
	assert.Contains(t, buf.String(), "Session 3")
	assert.Contains(t, buf.String(), "(no date)")

	buf.Reset()
	require.NoError(t, w.WriteTrim(&domain.TrimEvent{Session: 1, Path: "a.md", BytesBefore: 100, BytesAfter: 20}))
	assert.Contains(t, buf.String(), "(100 -> 20 bytes)")

	buf.Reset()
	require.NoError(t, w.WriteTrim(&domain.TrimEvent{Session: 2, Path: "b.md", Unchanged: true}))
	assert.Contains(t, buf.String(), "already trimmed")

	buf.Reset()
	require.NoError(t, w.WriteInject(&domain.InjectEvent{
		Session: 4, Path: "d.md", Injected: true,
		Selections: []domain.Selection{{Session: 1, Level: 1}, {Session: 2, Level: 2}, {Session: 3, Level: 3}},
	}))
	assert.Contains(t, buf.String(), "[S1/L1 S2/L2 S3/L3]")

	buf.Reset()
	require.NoError(t, w.WriteInject(&domain.InjectEvent{Session: 1, Path: "a.md", Reason: "no_summaries"}))
	assert.Contains(t, buf.String(), "skipped: no_summaries")

	buf.Reset()
	require.NoError(t, w.WriteSummary(&domain.RunSummary{Stage: "run", Split: 3, Trimmed: 3, Injected: 2, Skipped: 1}))
	assert.Equal(t, "run: 3 split, 3 trimmed, 2 injected, 1 skipped\n", buf.String())
}

func TestTextWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextWriter(&buf).WriteError("NO_HEADERS", "no headers", "re-run split"))
	assert.Contains(t, buf.String(), "Error [NO_HEADERS]: no headers (hint: re-run split)")

	buf.Reset()
	require.NoError(t, NewTextWriter(&buf).WriteError("FAILED", "boom", ""))
	assert.Contains(t, buf.String(), "Error [FAILED]: boom")
	assert.NotContains(t, buf.String(), "hint")
}
