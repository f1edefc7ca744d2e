package tradelog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOURNAL_LOG_DIR", dir)

	require.NoError(t, Append(Entry{TradeID: "t-1", Symbol: "INFY", Status: "OPEN", OpenQuantity: 100, RealizedPL: "0", UnrealizedPL: "250"}))
	require.NoError(t, Append(Entry{TradeID: "t-2", Symbol: "TCS", Status: "CLOSED", RealizedPL: "3000", UnrealizedPL: "0"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	b, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var first Entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "t-1", first.TradeID)
	assert.NotEmpty(t, first.Time)
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOURNAL_LOG_DIR", dir)

	old := filepath.Join(dir, "2025-01-01.txt")
	require.NoError(t, os.WriteFile(old, []byte("{}\n"), 0o644))
	past := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, past, past))

	recent := filepath.Join(dir, "2025-08-30.txt")
	require.NoError(t, os.WriteFile(recent, []byte("{}\n"), 0o644))

	require.NoError(t, CompressOlder(7))

	_, err := os.Stat(old + ".gz")
	assert.NoError(t, err, "old file should be gzipped")
	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err), "original should be removed")
	_, err = os.Stat(recent)
	assert.NoError(t, err, "recent file should be untouched")
}

func TestCompressOlder_Disabled(t *testing.T) {
	t.Setenv("JOURNAL_LOG_DIR", t.TempDir())
	assert.NoError(t, CompressOlder(0))
}
