package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handpose/internal/asset"
	"handpose/internal/hand"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"hierarchy", "bindpose", "match", "capture"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	handFlag := cmd.PersistentFlags().Lookup("hand")
	require.NotNil(t, handFlag)
	assert.Equal(t, "both", handFlag.DefValue)
}

func TestHierarchy(t *testing.T) {
	out, err := execute(t, "hierarchy")
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, hand.WriteTree(&want))
	assert.Equal(t, want.String(), out)
}

func TestInvalidHand(t *testing.T) {
	_, err := execute(t, "hierarchy", "--hand", "middle")
	assert.ErrorContains(t, err, "invalid hand")
}

func TestBindPose_WritesAssets(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "bindpose", "--hand", "left", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "left hand")
	assert.Contains(t, out, "index_tip")
	assert.NotContains(t, out, "right hand")

	bp, err := asset.LoadBindPose(filepath.Join(dir, "left.yaml"))
	require.NoError(t, err)
	assert.Equal(t, hand.Left, bp.Handedness)
	assert.NoFileExists(t, filepath.Join(dir, "right.yaml"))
}

func TestCaptureThenMatch(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "capture", "open", "--hand", "right", "--frame", "0", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "captured open")

	c, err := asset.LoadShape(filepath.Join(dir, "open.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Bones, len(DefaultCaptureBones))

	// 30 fps over a 2 s cycle: the hand is closed by frame 30
	out, err = execute(t, "match", "--shapes", dir, "--hand", "right", "--frames", "31", "--changes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasSuffix(lines[0], "open"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "-"), lines[1])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "0 "), lines[0])
}

func TestCapture_NeedsOneHand(t *testing.T) {
	_, err := execute(t, "capture", "open", "--out", t.TempDir())
	assert.ErrorContains(t, err, "--hand left or --hand right")
}

func TestMatch_RequiresShapes(t *testing.T) {
	_, err := execute(t, "match")
	assert.Error(t, err)
}

func TestMatch_Recording(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "capture", "open", "--hand", "left", "--out", dir)
	require.NoError(t, err)

	rec := filepath.Join(t.TempDir(), "missing.jsonl")
	_, err = execute(t, "match", "--shapes", dir, "--recording", rec)
	assert.Error(t, err)
	_, statErr := os.Stat(rec)
	assert.True(t, os.IsNotExist(statErr))
}
