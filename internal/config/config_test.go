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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("BASE_URL", "")
	cfg := FromEnv()
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, "verification", cfg.OutputDir)
	assert.True(t, cfg.Headless)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverride(t *testing.T) {
	t.Setenv("BASE_URL", "https://staging.example.com/")
	cfg := FromEnv()
	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.BaseURL = "" },
			wantErr: "must not be empty",
		},
		{
			name:    "missing scheme",
			mutate:  func(c *Config) { c.BaseURL = "localhost:3000" },
			wantErr: "must start with",
		},
		{
			name:    "trailing slash",
			mutate:  func(c *Config) { c.BaseURL = "http://localhost:3000/" },
			wantErr: "must not end with a slash",
		},
		{
			name:    "zero nav timeout",
			mutate:  func(c *Config) { c.NavTimeout = 0 },
			wantErr: "must be positive",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("BASE_URL", "")
			cfg := FromEnv()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestURL(t *testing.T) {
	cfg := Config{BaseURL: "http://localhost:3000"}
	assert.Equal(t, "http://localhost:3000/register", cfg.URL("/register"))
	assert.Equal(t, "http://localhost:3000/dashboard/flows", cfg.URL("dashboard/flows"))
}
