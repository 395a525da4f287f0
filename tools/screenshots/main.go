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

// The screenshots tool runs every verification scenario against a live
// ContactFlow deployment and collects the screenshot artifacts plus a
// few extra captures of intermediate screens, for documentation and
// release review. It expects a remote Chrome instance.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ttbt-io/contactflow-verify/internal/config"
	"github.com/ttbt-io/contactflow-verify/internal/scenario"
	"github.com/ttbt-io/contactflow-verify/internal/verify"
	"github.com/ttbt-io/contactflow-verify/tools/e2ehelpers"
)

var (
	chromeURL = flag.String("chrome-url", "", "The url of the remote debugging port")
	outputDir = flag.String("output-dir", "/screenshots", "Directory to save screenshots")
)

func main() {
	flag.Parse()

	if *chromeURL == "" {
		log.Fatal("--chrome-url must be set")
	}

	cfg := config.FromEnv()
	cfg.ChromeURL = *chromeURL
	cfg.OutputDir = *outputDir
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	zlog, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	log.Printf("Running scenarios against %s", cfg.BaseURL)

	runner := scenario.NewRunner(cfg, zlog).WithFailureHook(
		func(ctx context.Context, name string, stepErr error) {
			debugFailure(ctx, name)
		})

	failed := 0
	for _, sc := range verify.Scenarios(cfg, zlog) {
		log.Printf("Scenario: %s", sc.Name)
		if _, err := runner.Run(context.Background(), sc.Name, sc.Steps()); err != nil {
			log.Printf("Scenario %s failed: %v", sc.Name, err)
			failed++
		}
	}

	if err := captureFormScreens(cfg); err != nil {
		log.Fatalf("Failed to capture form screens: %v", err)
	}

	if failed > 0 {
		log.Fatalf("%d scenarios failed", failed)
	}
	log.Println("Screenshots generated successfully.")
}

func debugFailure(ctx context.Context, name string) {
	log.Printf("DEBUG: capturing failure info for %s", name)
	var htmlContent string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &htmlContent)); err != nil {
		log.Printf("DEBUG: Failed to capture HTML: %v", err)
	} else {
		log.Printf("DEBUG: HTML Dump for %s:\n%s", name, htmlContent)
	}

	path := filepath.Join(*outputDir, "debug-"+name+".png")
	if err := e2ehelpers.CaptureScreenshot(ctx, path); err != nil {
		log.Printf("DEBUG: Failed to capture screenshot: %v", err)
	}
}

// captureFormScreens saves the bare registration and login screens,
// which the scenarios pass through too quickly to photograph.
func captureFormScreens(cfg config.Config) error {
	allocCtx, cancel := chromedp.NewRemoteAllocator(context.Background(), cfg.ChromeURL)
	defer cancel()
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for _, tc := range []struct {
		path     string
		waitText string
		file     string
	}{
		{"/register", "Create account", "register-form.png"},
		{"/login", "Sign in", "login-form.png"},
	} {
		log.Printf("Capturing: %s", tc.path)
		if err := chromedp.Run(ctx,
			e2ehelpers.ClearCookies(),
			chromedp.Navigate(cfg.URL(tc.path)),
			e2ehelpers.WaitTextVisible(tc.waitText, cfg.WaitTimeout),
			e2ehelpers.DisableCSSAnimations(),
			chromedp.Sleep(200*time.Millisecond),
		); err != nil {
			return err
		}
		if err := e2ehelpers.CaptureScreenshot(ctx, filepath.Join(*outputDir, tc.file)); err != nil {
			return err
		}
	}
	return nil
}
