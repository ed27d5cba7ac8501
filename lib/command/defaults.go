// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDefaults reads a YAML defaults file mapping argument names (the
// long flag name, without dashes) to values. A missing file is not an
// error: commands work the same whether or not the user keeps one.
func LoadDefaults(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading defaults file %s: %w", path, err)
	}

	defaults := make(map[string]any)
	if err := yaml.Unmarshal(raw, &defaults); err != nil {
		return nil, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return defaults, nil
}
