package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

const validContent = `
startingDeck: [strike]
cards:
  - id: strike
    name: Strike
events:
  - id: quiet_shrine
    title: Quiet Shrine
    text: A shrine hums.
    choices:
      - id: pray
        label: Pray
`

func TestValidate_Default(t *testing.T) {
	out, _, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Content is valid!")
	assert.Contains(t, out, "Events")
}

func TestValidate_ValidDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "content.yaml", validContent)

	out, _, err := run(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Cards")

	out, _, err = run(t, "--quiet", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		wants string
	}{
		{"unknown key", "content.yaml", "cards:\n  - id: strike\n    colour: red\n", "strict decoding failed"},
		{"bad id", "content.yaml", "cards:\n  - id: Strike-Card\n", "should be lowercase snake_case"},
		{"bad file name", "MyContent.yaml", validContent, "must be lowercase snake_case"},
		{"dangling reference", "content.yaml", "startingDeck: [missing_card]\n", "reference errors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.body)
			_, errOut, err := run(t, dir)
			require.Error(t, err)
			assert.Contains(t, errOut, tt.wants)
		})
	}
}

func TestValidate_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "content.yaml", validContent)
	_, _, err := run(t, filepath.Join(dir, "content.yaml"))
	assert.Error(t, err)
}
