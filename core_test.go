package quadvk

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestNewLogsToFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logs, err := NewLogs(dir)
	require.NoError(t, err)
	require.True(t, logs.ToFiles())

	logs.Info.Println("vulkan: hello")
	logs.Warn.Println("vulkan warning: careful")
	logs.Error.Println("broken")
	require.NoError(t, logs.Close())
	require.False(t, logs.ToFiles())

	for name, want := range map[string]string{
		"info_log.txt":  "INFO: ",
		"warn_log.txt":  "WARNING: ",
		"error_log.txt": "ERROR: ",
	} {
		data, err := ioutil.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Contains(t, string(data), want)
		require.Contains(t, string(data), "core_test.go")
	}
}

func TestNewLogsStderr(t *testing.T) {
	logs, err := NewLogs("")
	require.NoError(t, err)
	require.False(t, logs.ToFiles())
	require.NoError(t, logs.Close())
}

func TestDiagnosticsSeverity(t *testing.T) {
	logs := DiscardLogs()
	d := &Diagnostics{logs: logs}
	require.Equal(t, logs.Error, d.loggerFor(vk.DebugReportFlags(vk.DebugReportErrorBit|vk.DebugReportWarningBit)))
	require.Equal(t, logs.Warn, d.loggerFor(vk.DebugReportFlags(vk.DebugReportWarningBit)))
	require.Equal(t, logs.Warn, d.loggerFor(vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit)))
	require.Equal(t, logs.Info, d.loggerFor(vk.DebugReportFlags(vk.DebugReportInformationBit)))
}

func TestNilDiagnosticsIsNoop(t *testing.T) {
	var d *Diagnostics
	require.NotPanics(t, func() {
		d.Report(vk.DebugReportFlags(vk.DebugReportErrorBit), "layer", 1, "message")
		d.Destroy()
	})
}
