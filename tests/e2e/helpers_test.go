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
	"github.com/ttbt-io/contactflow-verify/tools/e2ehelpers"
)

var (
	FillByLabel          = e2ehelpers.FillByLabel
	ClickButton          = e2ehelpers.ClickButton
	ClickByLabel         = e2ehelpers.ClickByLabel
	JSClickLast          = e2ehelpers.JSClickLast
	CurrentURL           = e2ehelpers.CurrentURL
	WaitURLEquals        = e2ehelpers.WaitURLEquals
	WaitURLPrefix        = e2ehelpers.WaitURLPrefix
	WaitTextVisible      = e2ehelpers.WaitTextVisible
	WaitNotVisible       = e2ehelpers.WaitNotVisible
	WaitToastContains    = e2ehelpers.WaitToastContains
	WaitNetworkIdle      = e2ehelpers.WaitNetworkIdle
	IsTextVisible        = e2ehelpers.IsTextVisible
	ToastTexts           = e2ehelpers.ToastTexts
	DragAndDrop          = e2ehelpers.DragAndDrop
	ClearCookies         = e2ehelpers.ClearCookies
	CaptureScreenshot    = e2ehelpers.CaptureScreenshot
	Screenshot           = e2ehelpers.Screenshot
	DisableCSSAnimations = e2ehelpers.DisableCSSAnimations
	VisibleBodyText      = e2ehelpers.VisibleBodyText
	Bounded              = e2ehelpers.Bounded
	HeadingXPath         = e2ehelpers.HeadingXPath
)
