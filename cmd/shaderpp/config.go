// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaderpp/shaderpp/platform"
)

// fileConfig is the optional "shaderpp.yaml" run configuration: a
// structured file describing a run, the same shape the teacher applies
// to its own directive-driven BUILD configuration, adapted to a plain
// file since this tool has no build graph to hang directives off of.
type fileConfig struct {
	Defines      []string `yaml:"defines"`
	Undefines    []string `yaml:"undefines"`
	IncludePaths []string `yaml:"include_paths"`
	SkipComments bool     `yaml:"skip_comments"`
	// Platform is an "os/arch" pair (e.g. "linux/amd64", "macos/arm64")
	// whose predefined macros (see the platform package) are seeded
	// before Defines/Undefines are applied, so a run can still override
	// any individual platform macro.
	Platform string `yaml:"platform"`
}

// loadConfig reads and parses path. A missing file is not an error: the
// CLI is usable with flags alone.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// parsePlatform parses an "os/arch" pair (e.g. "linux/amd64") into a
// platform.Platform, resolving the aliases platform.Create knows about. A
// value without a "/", including the empty string, is an error; main only
// calls it when a platform was requested.
func parsePlatform(value string) (platform.Platform, error) {
	osName, archName, ok := strings.Cut(value, "/")
	if !ok {
		return platform.Platform{}, fmt.Errorf("invalid -platform %q, expected OS/ARCH", value)
	}
	return platform.Create(platform.OS(osName), platform.Arch(archName))
}
