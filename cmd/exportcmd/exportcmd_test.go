package exportcmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidesound/editor/cmd/exportcmd"
	"github.com/tidesound/editor/cmd/sessionio"
	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/engine"
	"github.com/tidesound/editor/internal/wavcodec"
)

func writeProjectWithOneTrack(t *testing.T, dir string) string {
	t.Helper()
	wavPath := filepath.Join(dir, "source.wav")
	samples := make([]float32, 48000)
	for i := range samples {
		samples[i] = 0.1
	}
	f, err := os.Create(wavPath)
	require.NoError(t, err)
	require.NoError(t, wavcodec.Encode(f, [][]float32{samples}, 48000, wavcodec.FormatPCM16, wavcodec.Limits{}))
	f.Close()

	settings := conf.Default()
	sess := engine.New(settings)
	t.Cleanup(func() { _ = sess.Events.Shutdown(0) })
	buf, err := sess.Registry.LoadWAV(mustOpen(t, wavPath))
	require.NoError(t, err)
	sess.Store.CreateTrackFromBuffer(buf, nil, "a", 0, wavPath)

	projectPath := filepath.Join(dir, "project.json")
	require.NoError(t, sessionio.Save(projectPath, sess, "export-test"))
	return projectPath
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExportCommandWritesMixedWAVFile(t *testing.T) {
	dir := t.TempDir()
	projectPath := writeProjectWithOneTrack(t, dir)
	outPath := filepath.Join(dir, "mixdown.wav")

	cmd := exportcmd.Command(conf.Default())
	cmd.SetArgs([]string{projectPath, "-o", outPath})
	require.NoError(t, cmd.Execute())

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44), "a non-empty WAV file was written past the header")
}

func TestExportCommandRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	projectPath := writeProjectWithOneTrack(t, dir)

	cmd := exportcmd.Command(conf.Default())
	cmd.SetArgs([]string{projectPath, "-o", filepath.Join(dir, "out.wav"), "--format", "mp3"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	assert.Error(t, cmd.Execute())
}
