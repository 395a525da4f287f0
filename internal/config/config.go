// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the runtime settings shared by the verification
// scenarios: the target origin, artifact output directory, browser mode,
// and the wait budgets for navigation and element visibility.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the target origin used when BASE_URL is not set.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultOutputDir is where success screenshots are written.
	DefaultOutputDir = "verification"
)

// Config is the runtime configuration for a scenario run.
type Config struct {
	// BaseURL is the origin of the dashboard under verification,
	// without a trailing slash.
	BaseURL string

	// OutputDir is the directory for screenshot artifacts.
	OutputDir string

	// ChromeURL, if set, is the remote debugging URL of an already
	// running Chrome instance. When empty, a local headless browser
	// is launched.
	ChromeURL string

	// Headless controls the locally launched browser.
	Headless bool

	// NavTimeout bounds every expected navigation (URL change).
	NavTimeout time.Duration

	// WaitTimeout bounds element visibility and network-idle waits.
	WaitTimeout time.Duration

	// ScenarioTimeout bounds one scenario end to end.
	ScenarioTimeout time.Duration
}

// FromEnv returns the default configuration with the BASE_URL
// environment override applied.
func FromEnv() Config {
	cfg := Config{
		BaseURL:         DefaultBaseURL,
		OutputDir:       DefaultOutputDir,
		Headless:        true,
		NavTimeout:      15 * time.Second,
		WaitTimeout:     10 * time.Second,
		ScenarioTimeout: 120 * time.Second,
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	return cfg
}

// Validate reports configuration errors before a browser is launched.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base URL %q must start with http:// or https://", c.BaseURL)
	}
	if strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("base URL %q must not end with a slash", c.BaseURL)
	}
	if c.NavTimeout <= 0 || c.WaitTimeout <= 0 {
		return fmt.Errorf("wait budgets must be positive")
	}
	return nil
}

// URL joins the base URL with an absolute path.
func (c Config) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}
