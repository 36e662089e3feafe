package runlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_FileAndConsole(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	run, err := Open(Options{Dir: dir, Genome: "g1", Console: LockedConsole(&console)})
	require.NoError(t, err)
	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)

	run.Log.Debug("file only")
	run.Log.Info("both", zap.String("category", "species"))
	require.NoError(t, run.Close())
	require.NoError(t, run.Close(), "second close is a no-op")

	assert.Contains(t, console.String(), "both")
	assert.NotContains(t, console.String(), "file only")

	fh, err := os.Open(run.Path)
	require.NoError(t, err)
	defer fh.Close()
	var entries []map[string]interface{}
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		entries = append(entries, m)
	}
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, run.ID, e["run_id"])
		assert.Equal(t, "g1", e["genome"])
	}
	assert.Equal(t, "species", entries[1]["category"])
}

func TestOpen_Quiet(t *testing.T) {
	var console bytes.Buffer
	run, err := Open(Options{Genome: "g", Console: LockedConsole(&console), Quiet: true})
	require.NoError(t, err)
	run.Log.Info("hidden")
	run.Log.Warn("shown")
	require.NoError(t, run.Close())
	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
	assert.Empty(t, run.Path)
}

func TestOpen_NoSinks(t *testing.T) {
	run, err := Open(Options{Genome: "g"})
	require.NoError(t, err)
	run.Log.Info("nothing")
	assert.Empty(t, run.Path)
	assert.NoError(t, run.Close())
}
