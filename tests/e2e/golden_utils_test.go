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

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pmezard/go-difflib/difflib"
)

// Counter values vary per account, so they are normalized before the
// golden comparison. Everything else on the summary cards is stable.
var numberRe = regexp.MustCompile(`\b\d+\b`)

// VerifyDashboardSummary captures the dashboard summary card text and
// compares it to a golden file. If UPDATE_GOLDENS is true, it writes
// the file instead.
func VerifyDashboardSummary(t *testing.T, ctx context.Context, goldenFilename string) {
	// 1. Capture Text
	var actual string
	if err := chromedp.Run(ctx,
		chromedp.Sleep(1*time.Second), // Wait for render
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			actual, err = VisibleBodyText(ctx)
			return err
		}),
	); err != nil {
		t.Fatalf("Failed to capture dashboard text: %v", err)
	}

	// Clean up whitespace and counters for consistent comparison
	actual = strings.TrimSpace(actual)
	if len(actual) == 0 {
		t.Fatal("Dashboard summary is empty")
	}
	actual = numberRe.ReplaceAllString(actual, "N")

	// 2. Determine Golden Path
	// Tests run from the package directory, so goldens/ is relative.
	goldenPath := filepath.Join("goldens", goldenFilename)

	// 3. Update or Compare
	if os.Getenv("UPDATE_GOLDENS") == "true" {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			t.Fatalf("Failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, []byte(actual), 0644); err != nil {
			t.Fatalf("Failed to write golden file %s: %v", goldenPath, err)
		}
		t.Logf("Updated golden file: %s", goldenPath)
	} else {
		expectedBytes, err := os.ReadFile(goldenPath)
		if err != nil {
			if os.IsNotExist(err) {
				t.Logf("Golden file missing: %s. Run with UPDATE_GOLDENS=true to create it.\nActual Content:\n%s", goldenPath, actual)
				return
			}
			t.Fatalf("Failed to read golden file %s: %v", goldenPath, err)
		}
		expected := strings.TrimSpace(string(expectedBytes))

		if actual != expected {
			diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(expected),
				B:        difflib.SplitLines(actual),
				FromFile: "Expected",
				ToFile:   "Actual",
				Context:  3,
			})
			t.Errorf("Dashboard summary mismatch for %s:\n%s", goldenFilename, diff)
		}
	}
}
