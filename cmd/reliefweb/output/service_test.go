package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_WriteToJSON(t *testing.T) {
	var console bytes.Buffer
	om, err := NewManager(t.TempDir(), &console)
	require.NoError(t, err)
	defer om.Close()

	path, err := om.WriteToJSON(map[string]int{"count": 3}, "reports")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "reports_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded["count"])

	om.Logger().Info().Msg("run finished")
	assert.Contains(t, console.String(), "run finished")

	logData, err := os.ReadFile(filepath.Join(om.BaseDir(), "logs", "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "run finished")
}

func TestWriteText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "monitoring_logs")

	path, err := WriteText(dir, "02-05_10-00.txt", "Everything is ok")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Everything is ok", string(data))
}
