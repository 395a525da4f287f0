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
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ttbt-io/contactflow-verify/internal/identity"
)

// TestRegistrationSuccessToast requires the success toast before the
// redirect to login. When the toast does not appear, the visible toasts
// and the current URL are logged for diagnosis and the test fails
// without ever attempting login.
func TestRegistrationSuccessToast(t *testing.T) {
	cfg := testConfig()
	ctx := newBrowserContext(t, 90*time.Second)
	id := identity.New()

	runStep(t, ctx, "Register a new account",
		ClearCookies(),
		chromedp.Navigate(cfg.URL("/register")),
		FillByLabel("Name", id.Name),
		FillByLabel("Email", id.Email),
		FillByLabel("Password", id.Password),
		ClickButton("Create account"),
	)

	t.Log("STEP: Success toast then redirect to login")
	if err := chromedp.Run(ctx,
		WaitToastContains("Registration successful!", cfg.WaitTimeout),
		WaitURLEquals(cfg.URL("/login"), 5*time.Second),
	); err != nil {
		// Diagnostics only; the failure outcome does not change.
		if toasts, terr := ToastTexts(ctx); terr == nil && len(toasts) > 0 {
			t.Logf("Found toast messages: %q", toasts)
		}
		if url, uerr := CurrentURL(ctx); uerr == nil {
			t.Logf("Current URL is: %s", url)
		}
		t.Fatalf("STEP FAILED: registration did not succeed as expected: %v", err)
	}

	runStep(t, ctx, "Log in with the new account",
		FillByLabel("Email", id.Email),
		FillByLabel("Password", id.Password),
		ClickButton("Sign in"),
		WaitURLEquals(cfg.URL("/dashboard"), cfg.WaitTimeout),
	)

	runStep(t, ctx, "Dashboard totals visible and artifact captured",
		WaitTextVisible("Contactos Totales", cfg.WaitTimeout),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return CaptureScreenshot(ctx, filepath.Join(cfg.OutputDir, "dashboard_after_login.png"))
		}),
	)
}
