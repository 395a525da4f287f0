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

// Package e2e verifies the ContactFlow dashboard end to end through a
// real browser. The tests need a Chrome instance with remote debugging
// enabled (pass --with-chromedp) and a running deployment (BASE_URL,
// default http://localhost:3000). Without the flag every test skips.
//
// Each test registers a fresh account on the deployment; nothing is
// cleaned up afterwards.
package e2e

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/ttbt-io/contactflow-verify/internal/config"
)

var withChromeDP = flag.String("with-chromedp", "", "The url of the remote debugging port")

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

func testConfig() config.Config {
	cfg := config.FromEnv()
	cfg.ChromeURL = *withChromeDP
	return cfg
}

// newBrowserContext skips the test when no Chrome is available and
// otherwise returns a page context bounded by the given timeout. All
// browser resources are released when the test ends, pass or fail.
func newBrowserContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	if *withChromeDP == "" {
		t.Skip("--with-chromedp not set")
	}

	ctx, cancel := chromedp.NewRemoteAllocator(t.Context(), *withChromeDP)
	t.Cleanup(cancel)
	ctx, cancel = chromedp.NewContext(ctx,
		chromedp.WithErrorf(log.Printf),
		chromedp.WithLogf(log.Printf),
	)
	t.Cleanup(cancel)
	ctx, cancel = context.WithTimeout(ctx, timeout)
	t.Cleanup(cancel)

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			if ev.Type == runtime.APITypeError {
				args := make([]string, len(ev.Args))
				for i, arg := range ev.Args {
					args[i] = string(arg.Value)
				}
				t.Logf("JS CONSOLE ERROR: %s", strings.Join(args, " "))
			}
		case *runtime.EventExceptionThrown:
			t.Logf("JS EXCEPTION: %s", ev.ExceptionDetails.Text)
		}
	})

	return ctx
}

func runStep(t *testing.T, ctx context.Context, description string, actions ...chromedp.Action) {
	t.Helper()
	t.Logf("STEP: %s", description)
	for i, action := range actions {
		if err := chromedp.Run(ctx, action); err != nil {
			CaptureScreenshot(ctx, filepath.Join(os.TempDir(), "debug-failed-action.png"))
			t.Fatalf("STEP FAILED: %s [Action#%d]: %v", description, i, err)
		}
	}
}
