package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
	"github.com/lazycopy/lazycopy/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	err := output.PrintJSON(buf, map[string]string{"key": "value"})
	require.NoError(t, err)

	var result map[string]string
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "value", result["key"])
}

func TestPrintError(t *testing.T) {
	buf := new(bytes.Buffer)
	err := output.PrintError(buf, "test_error", "something went wrong")
	require.NoError(t, err)

	var result map[string]string
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "test_error", result["error"])
	assert.Equal(t, "something went wrong", result["message"])
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, output.ExitSuccess)
	assert.Equal(t, 1, output.ExitError)
	assert.Equal(t, 2, output.ExitFault)
	assert.Equal(t, 10, output.ExitNotInitialized)
	assert.Equal(t, 11, output.ExitOutOfBounds)
	assert.Equal(t, 12, output.ExitProtectionCall)
}

func TestSetAndGetFlags(t *testing.T) {
	output.SetFlags(true, true, false)
	assert.True(t, output.IsJSON())
	assert.True(t, output.IsQuiet())
	assert.False(t, output.IsVerbose())

	output.SetFlags(false, false, true)
	assert.False(t, output.IsJSON())
	assert.False(t, output.IsQuiet())
	assert.True(t, output.IsVerbose())

	output.SetFlags(false, false, false)
}

func TestPrintStatsJSON(t *testing.T) {
	output.SetFlags(true, false, false)
	defer output.SetFlags(false, false, false)

	buf := new(bytes.Buffer)
	stats := lazycopy.Stats{InUse: 8, Capacity: 10, ChainLen: 8}
	require.NoError(t, output.PrintStats(buf, stats))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, float64(8), result["in_use"])
	assert.Equal(t, float64(10), result["capacity"])
	assert.Equal(t, "medium", result["pressure"])
}

func TestPrintStatsQuietSuppressesOutput(t *testing.T) {
	output.SetFlags(false, true, false)
	defer output.SetFlags(false, false, false)

	buf := new(bytes.Buffer)
	require.NoError(t, output.PrintStats(buf, lazycopy.Stats{InUse: 1, Capacity: 2}))
	assert.Empty(t, buf.String())
}

func TestPrintStatsTextIncludesPressure(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, output.PrintStats(buf, lazycopy.Stats{InUse: 2, Capacity: 50, ChainLen: 2}))
	assert.Contains(t, buf.String(), "pressure low")
}

func TestExitCodeForError(t *testing.T) {
	assert.Equal(t, output.ExitSuccess, output.ExitCodeForError(nil))
	assert.Equal(t, output.ExitNotInitialized, output.ExitCodeForError(lazycopy.ErrNotInitialized))
	assert.Equal(t, output.ExitOutOfBounds, output.ExitCodeForError(lazycopy.ErrOutOfBounds))
	assert.Equal(t, output.ExitError, output.ExitCodeForError(errors.New("some other failure")))
}
