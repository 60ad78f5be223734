package sinkreach

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	content := `target_lang: python
functions:
  - name: run
    source_file: main.py
    callsites:
      system:
        - "main.py#run:42"
  - name: system
    source_file: os
    incoming_references: [run]
    reached_by_fuzzers: [fuzzer_one]
profiles:
  - fuzzer: fuzzer_one
    call_tree:
      dst_function: run
      dst_file: main.py
      line: 0
      children:
        - src_function: run
          src_file: main.py
          line: 42
          dst_function: system
          dst_file: os
coverage:
  hits:
    run: [42]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	project, err := LoadProject(path)
	require.NoError(t, err)

	require.Equal(t, "python", project.TargetLang)
	require.Len(t, project.Functions, 2)
	require.Len(t, project.Profiles, 1)
	require.Equal(t, "fuzzer_one", project.Profiles[0].FuzzerName)
	require.NotNil(t, project.Profiles[0].CallTree)
	require.Len(t, project.Profiles[0].CallTree.Children, 1)
	require.Equal(t, []string{"main.py#run:42"}, project.Functions[0].Callsites["system"])
	require.True(t, project.Coverage.IsLineHit("run", 42))
}

func TestLoadProjectMissingFile(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadProjectMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_lang: [unclosed"), 0o644))

	_, err := LoadProject(path)
	require.Error(t, err)
}

func TestLoadProjectMissingTargetLang(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte("functions: []\n"), 0o644))

	_, err := LoadProject(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "target_lang")
}
