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

// Package e2ehelpers contains the chromedp building blocks shared by the
// verification scenarios, the e2e tests, and the screenshots tool.
//
// The dashboard under verification renders form fields with accessible
// labels and buttons with visible names, so the helpers here key off
// label text and button names rather than element ids. Toasts are
// role="status" elements.
package e2ehelpers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/pmezard/go-difflib/difflib"
)

// Logger interface allows passing *testing.T or log.Printf.
type Logger interface {
	Logf(format string, args ...any)
}

// escapeJS makes a string safe for embedding in a single-quoted JS literal.
func escapeJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// LabelXPath returns an XPath matching the form control associated with
// the given label text: either via the label's for attribute or a
// control nested inside the label. The match is exact so "Contraseña"
// does not also select "Confirmar contraseña".
func LabelXPath(label string) string {
	q := fmt.Sprintf("%q", label)
	return fmt.Sprintf(
		`//input[@id = //label[normalize-space() = %s]/@for] | //textarea[@id = //label[normalize-space() = %s]/@for] | //label[normalize-space() = %s]//input | //label[normalize-space() = %s]//textarea`,
		q, q, q, q)
}

// ButtonXPath returns an XPath matching a button with the given
// accessible name: a button element, a role="button" element, or a
// submit input whose value is the name.
func ButtonXPath(name string) string {
	q := fmt.Sprintf("%q", name)
	return fmt.Sprintf(
		`//button[normalize-space() = %s] | //*[@role="button"][normalize-space() = %s] | //input[@type="submit"][@value = %s]`,
		q, q, q)
}

// HeadingXPath returns an XPath matching a heading with the given name.
func HeadingXPath(name string) string {
	q := fmt.Sprintf("%q", name)
	return fmt.Sprintf(
		`//*[self::h1 or self::h2 or self::h3 or self::h4][normalize-space() = %s] | //*[@role="heading"][normalize-space() = %s]`,
		q, q)
}

// FillByLabel fills the form control associated with the given label.
// The value is set through the native setter and followed by input and
// change events so the dashboard's framework picks up the change.
func FillByLabel(label, value string) chromedp.Action {
	xp := LabelXPath(label)
	return chromedp.Tasks{
		chromedp.WaitVisible(xp, chromedp.BySearch),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var ok bool
			err := chromedp.Evaluate(fmt.Sprintf(`
				(() => {
					const res = document.evaluate('%s', document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
					const el = res.singleNodeValue;
					if (!el) return false;
					const proto = el.tagName === 'TEXTAREA' ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
					const setter = Object.getOwnPropertyDescriptor(proto, 'value').set;
					setter.call(el, '%s');
					el.dispatchEvent(new Event('input', { bubbles: true }));
					el.dispatchEvent(new Event('change', { bubbles: true }));
					return true;
				})()
			`, escapeJS(xp), escapeJS(value)), &ok).Do(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no form control labeled %q", label)
			}
			return nil
		}),
	}
}

// ClickButton clicks the button with the given accessible name.
func ClickButton(name string) chromedp.Action {
	xp := ButtonXPath(name)
	return chromedp.Tasks{
		chromedp.WaitVisible(xp, chromedp.BySearch),
		chromedp.Click(xp, chromedp.BySearch),
	}
}

// ControlXPath returns an XPath matching any interactive control with
// the given accessible name: labeled via for, nested in a label, or
// carrying an aria-label. Used for switches and other non-text inputs.
func ControlXPath(label string) string {
	q := fmt.Sprintf("%q", label)
	return fmt.Sprintf(
		`//*[@id = //label[normalize-space() = %s]/@for] | //label[normalize-space() = %s]//input | //*[@aria-label = %s]`,
		q, q, q)
}

// ClickByLabel clicks the control associated with the given label.
func ClickByLabel(label string) chromedp.Action {
	xp := ControlXPath(label)
	return chromedp.Tasks{
		chromedp.WaitVisible(xp, chromedp.BySearch),
		chromedp.Click(xp, chromedp.BySearch),
	}
}

// JSClickLast clicks the last element matching the CSS selector using a
// synthetic event. Useful when the element was just created and overlaps
// other click targets.
func JSClickLast(selector string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var ok bool
		err := chromedp.Evaluate(fmt.Sprintf(`
			(() => {
				const els = document.querySelectorAll('%s');
				if (!els.length) return false;
				els[els.length - 1].dispatchEvent(new MouseEvent('click', { bubbles: true }));
				return true;
			})()
		`, escapeJS(selector)), &ok).Do(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no element matches %s", selector)
		}
		return nil
	})
}

// Bounded runs the actions under their own deadline so an unbounded
// chromedp wait cannot consume the whole scenario budget.
func Bounded(timeout time.Duration, actions ...chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		for _, a := range actions {
			if err := a.Do(timeoutCtx); err != nil {
				if timeoutCtx.Err() != nil {
					return fmt.Errorf("timed out after %s: %w", timeout, err)
				}
				return err
			}
		}
		return nil
	})
}

// CurrentURL returns the page's current location.
func CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// WaitURLEquals waits until the page URL equals want, ignoring a
// trailing slash. On timeout the error reports the URL the page was
// actually on.
func WaitURLEquals(want string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		norm := func(u string) string { return strings.TrimRight(u, "/") }
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var last string
		for {
			select {
			case <-ticker.C:
				var url string
				if err := chromedp.Location(&url).Do(ctx); err != nil {
					continue
				}
				last = url
				if norm(url) == norm(want) {
					return nil
				}
			case <-timeoutCtx.Done():
				return fmt.Errorf("timeout waiting for URL %q, still on %q", want, last)
			}
		}
	})
}

// WaitURLPrefix waits until the page URL starts with prefix.
func WaitURLPrefix(prefix string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var last string
		for {
			select {
			case <-ticker.C:
				var url string
				if err := chromedp.Location(&url).Do(ctx); err != nil {
					continue
				}
				last = url
				if strings.HasPrefix(url, prefix) {
					return nil
				}
			case <-timeoutCtx.Done():
				return fmt.Errorf("timeout waiting for URL prefix %q, still on %q", prefix, last)
			}
		}
	})
}

// visibleTextJS reports whether any element containing the text is
// actually rendered. Only the deepest matching elements count so a hit
// on body does not pass as visible content.
const visibleTextJS = `
	(function(text) {
		const els = document.querySelectorAll('body *');
		for (let i = 0; i < els.length; i++) {
			const el = els[i];
			if (el.children.length > 0) continue;
			if (!el.textContent || !el.textContent.includes(text)) continue;
			const style = window.getComputedStyle(el);
			if (el.offsetHeight !== 0 && style.display !== 'none' && style.visibility !== 'hidden' && style.opacity !== '0') {
				return true;
			}
		}
		return false;
	})('%s')
`

// IsTextVisible reports whether the text is currently visible on the
// page. Safe to call on any chromedp context, inside or outside a
// running action.
func IsTextVisible(ctx context.Context, text string) (bool, error) {
	var visible bool
	err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(visibleTextJS, escapeJS(text)), &visible))
	return visible, err
}

// WaitTextVisible waits until the text is visible somewhere on the page.
func WaitTextVisible(text string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		for {
			select {
			case <-ticker.C:
				visible, err := IsTextVisible(ctx, text)
				if err == nil && visible {
					return nil
				}
			case <-timeoutCtx.Done():
				return fmt.Errorf("timeout waiting for text %q to become visible", text)
			}
		}
	})
}

// WaitNotVisible waits until no element matched by the XPath is visible.
func WaitNotVisible(xpath string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		for {
			select {
			case <-ticker.C:
				var visible bool
				err := chromedp.Evaluate(fmt.Sprintf(`
					(() => {
						const res = document.evaluate('%s', document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
						for (let i = 0; i < res.snapshotLength; i++) {
							const el = res.snapshotItem(i);
							const style = window.getComputedStyle(el);
							if (el.offsetHeight !== 0 && style.display !== 'none' && style.visibility !== 'hidden') {
								return true;
							}
						}
						return false;
					})()
				`, escapeJS(xpath)), &visible).Do(ctx)
				if err == nil && !visible {
					return nil
				}
			case <-timeoutCtx.Done():
				return fmt.Errorf("timeout waiting for %s to disappear", xpath)
			}
		}
	})
}

// ToastTexts returns the text of every role="status" toast currently in
// the DOM, visible or not. Used for failure diagnostics. Like
// IsTextVisible, it works on any chromedp context.
func ToastTexts(ctx context.Context) ([]string, error) {
	var texts []string
	err := chromedp.Run(ctx, chromedp.Evaluate(`
		(() => {
			const out = [];
			document.querySelectorAll('[role="status"]').forEach(el => {
				const t = el.innerText.trim();
				if (t) out.push(t);
			});
			return out;
		})()
	`, &texts))
	return texts, err
}

// WaitToastContains waits for a role="status" toast containing the text.
func WaitToastContains(text string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		for {
			select {
			case <-ticker.C:
				var found bool
				err := chromedp.Evaluate(fmt.Sprintf(`
					(() => {
						const els = document.querySelectorAll('[role="status"]');
						for (let i = 0; i < els.length; i++) {
							if (els[i].innerText.includes('%s')) return true;
						}
						return false;
					})()
				`, escapeJS(text)), &found).Do(ctx)
				if err == nil && found {
					return nil
				}
			case <-timeoutCtx.Done():
				return fmt.Errorf("timeout waiting for toast containing %q", text)
			}
		}
	})
}

// WaitNetworkIdle approximates a network-idle readiness signal: the
// document is complete and the resource entry count has been stable for
// half a second. The dashboard exposes no explicit data-loaded marker,
// so this heuristic is the best available signal.
func WaitNetworkIdle(timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		lastCount := -1
		var stableSince time.Time
		for {
			select {
			case <-ticker.C:
				var state struct {
					Ready bool `json:"ready"`
					Count int  `json:"count"`
				}
				err := chromedp.Evaluate(`
					({
						ready: document.readyState === 'complete',
						count: performance.getEntriesByType('resource').length,
					})
				`, &state).Do(ctx)
				if err != nil || !state.Ready {
					continue
				}
				if state.Count != lastCount {
					lastCount = state.Count
					stableSince = time.Now()
					continue
				}
				if time.Since(stableSince) >= 500*time.Millisecond {
					return nil
				}
			case <-timeoutCtx.Done():
				return fmt.Errorf("timeout waiting for network idle")
			}
		}
	})
}

// elementCenter returns the viewport center of the first element
// matching the CSS selector, scrolling it into view first.
func elementCenter(ctx context.Context, selector string) (x, y float64, err error) {
	var box []float64
	err = chromedp.Evaluate(fmt.Sprintf(`
		(() => {
			const el = document.querySelector('%s');
			if (!el) return null;
			el.scrollIntoView({ block: 'center' });
			const r = el.getBoundingClientRect();
			return [r.left + r.width / 2, r.top + r.height / 2];
		})()
	`, escapeJS(selector)), &box).Do(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(box) != 2 {
		return 0, 0, fmt.Errorf("element not found: %s", selector)
	}
	return box[0], box[1], nil
}

// DragAndDrop presses the mouse on the center of the source element and
// releases it at the target element's top-left corner plus the given
// offset, moving in small increments so drag listeners fire along the way.
func DragAndDrop(sourceSel, targetSel string, offsetX, offsetY float64) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		sx, sy, err := elementCenter(ctx, sourceSel)
		if err != nil {
			return fmt.Errorf("drag source %q: %w", sourceSel, err)
		}
		var rect []float64
		err = chromedp.Evaluate(fmt.Sprintf(`
			(() => {
				const el = document.querySelector('%s');
				if (!el) return null;
				const r = el.getBoundingClientRect();
				return [r.left, r.top];
			})()
		`, escapeJS(targetSel)), &rect).Do(ctx)
		if err != nil {
			return err
		}
		if len(rect) != 2 {
			return fmt.Errorf("drag target not found: %s", targetSel)
		}
		tx, ty := rect[0]+offsetX, rect[1]+offsetY

		if err := input.DispatchMouseEvent(input.MouseMoved, sx, sy).Do(ctx); err != nil {
			return err
		}
		if err := input.DispatchMouseEvent(input.MousePressed, sx, sy).
			WithButton(input.Left).WithClickCount(1).Do(ctx); err != nil {
			return err
		}
		const steps = 10
		for i := 1; i <= steps; i++ {
			f := float64(i) / steps
			mx := sx + (tx-sx)*f
			my := sy + (ty-sy)*f
			if err := input.DispatchMouseEvent(input.MouseMoved, mx, my).
				WithButton(input.Left).Do(ctx); err != nil {
				return err
			}
			time.Sleep(20 * time.Millisecond)
		}
		return input.DispatchMouseEvent(input.MouseReleased, tx, ty).
			WithButton(input.Left).WithClickCount(1).Do(ctx)
	})
}

// ClearCookies drops all browser cookies so a scenario starts from a
// logged-out state.
func ClearCookies() chromedp.Action {
	return network.ClearBrowserCookies()
}

// CaptureScreenshot captures a full-page screenshot and saves it to the
// given filename, creating parent directories as needed. The file is
// overwritten on each run.
func CaptureScreenshot(ctx context.Context, filename string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory for screenshot: %w", err)
	}
	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot to file: %w", err)
	}
	log.Printf("Saved screenshot to %s", filename)
	return nil
}

// Screenshot is CaptureScreenshot as a chromedp.Action, for use as the
// terminal step of a scenario.
func Screenshot(filename string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return CaptureScreenshot(ctx, filename)
	})
}

func DisableCSSAnimations() chromedp.ActionFunc {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.Evaluate(`
                        const style = document.createElement('style');
                        style.innerHTML = '*{-webkit-transition-duration:0s!important;transition-duration:0s!important;-webkit-animation-duration:0s!important;animation-duration:0s!important;}';
                        document.head.appendChild(style);
                `, nil).Do(ctx)
	})
}

// VisibleBodyText returns the rendered text of the page body.
func VisibleBodyText(ctx context.Context) (string, error) {
	var text string
	err := chromedp.Text("body", &text, chromedp.ByQuery).Do(ctx)
	return text, err
}

// TextDiff returns a unified diff between expected and actual text, for
// assertion failure messages.
func TextDiff(expected, actual string) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  3,
	})
	return diff
}
