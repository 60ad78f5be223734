// Package sinkreach reports security-sensitive sink calls and whether
// fuzzers statically reach and dynamically cover them.
package sinkreach

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/715d/sinkreach/internal/profile"
)

// LoadProject reads a project bundle from a YAML file: target language,
// project-wide function registry, fuzz-entry profiles and merged
// runtime coverage.
func LoadProject(path string) (*profile.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project bundle: %w", err)
	}

	var project profile.Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parsing project bundle %s: %w", path, err)
	}

	if project.TargetLang == "" {
		return nil, fmt.Errorf("project bundle %s declares no target_lang", path)
	}

	return &project, nil
}
