package harness

import (
	"os"
	"path/filepath"
	"testing"

	yaml "gopkg.in/yaml.v3"

	"github.com/stretchr/testify/require"
)

// LoadScenario reads a scenario's expected.yaml from the given directory.
func LoadScenario(t *testing.T, dir string) *Scenario {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, "expected.yaml"))
	require.NoError(t, err, "read expected.yaml")

	var scenario Scenario
	require.NoError(t, yaml.Unmarshal(data, &scenario), "parse expected.yaml")

	scenario.Dir = dir
	return &scenario
}
