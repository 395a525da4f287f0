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

// Package verify defines the ContactFlow verification scenarios. Each
// scenario is a linear sequence of steps: register and log in with a
// fresh identity, verify a piece of dashboard state, and capture a
// screenshot artifact. Scenarios create real accounts (and in one case
// a real contact) on the target deployment; nothing is cleaned up.
package verify

import (
	"context"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ttbt-io/contactflow-verify/internal/config"
	"github.com/ttbt-io/contactflow-verify/internal/identity"
	"github.com/ttbt-io/contactflow-verify/internal/scenario"
	"github.com/ttbt-io/contactflow-verify/tools/e2ehelpers"
)

// Scenario is one named verification flow. Steps assembles a fresh step
// list (with a fresh identity) for every run.
type Scenario struct {
	Name        string
	Description string
	Steps       func() []scenario.Step
}

// Scenarios returns every verification scenario for the deployment.
func Scenarios(cfg config.Config, log *zap.Logger) []Scenario {
	return []Scenario{
		{
			Name:        "login",
			Description: "Register a fresh account, log in, and verify the dashboard renders its totals.",
			Steps:       func() []scenario.Step { return Login(cfg, identity.New()) },
		},
		{
			Name:        "register-toast",
			Description: "Register and require the success toast before the redirect to login.",
			Steps:       func() []scenario.Step { return RegisterToast(cfg, identity.New(), log) },
		},
		{
			Name:        "flow-builder",
			Description: "Create a flow, drop a message node on the canvas, and toggle its template switch.",
			Steps:       func() []scenario.Step { return FlowBuilder(cfg) },
		},
		{
			Name:        "send-message",
			Description: "Ensure a contact exists and verify its detail page offers direct messaging.",
			Steps:       func() []scenario.Step { return SendMessage(cfg, identity.New()) },
		},
	}
}

// registerSteps fills the English-labeled registration form and submits it.
func registerSteps(cfg config.Config, id identity.Identity) []scenario.Step {
	return []scenario.Step{
		{
			Desc:  "open registration form",
			Phase: scenario.PhaseRegistering,
			Action: chromedp.Tasks{
				e2ehelpers.ClearCookies(),
				chromedp.Navigate(cfg.URL("/register")),
			},
		},
		{
			Desc:  "submit registration",
			Phase: scenario.PhaseRegistering,
			Action: chromedp.Tasks{
				e2ehelpers.FillByLabel("Name", id.Name),
				e2ehelpers.FillByLabel("Email", id.Email),
				e2ehelpers.FillByLabel("Password", id.Password),
				e2ehelpers.ClickButton("Create account"),
			},
		},
	}
}

// loginSteps logs in with the English-labeled form and waits for the
// dashboard.
func loginSteps(cfg config.Config, id identity.Identity) []scenario.Step {
	return []scenario.Step{
		{
			Desc:  "log in",
			Phase: scenario.PhaseLoggingIn,
			Action: chromedp.Tasks{
				e2ehelpers.FillByLabel("Email", id.Email),
				e2ehelpers.FillByLabel("Password", id.Password),
				e2ehelpers.ClickButton("Sign in"),
			},
		},
		{
			Desc:   "redirect to dashboard",
			Phase:  scenario.PhaseAwaitingDashboard,
			Action: e2ehelpers.WaitURLEquals(cfg.URL("/dashboard"), cfg.NavTimeout),
		},
	}
}

// Login is the basic happy path: register, log in, verify the dashboard
// totals marker, capture the artifact.
func Login(cfg config.Config, id identity.Identity) []scenario.Step {
	steps := registerSteps(cfg, id)
	steps = append(steps, scenario.Step{
		Desc:   "redirect to login",
		Phase:  scenario.PhaseAwaitingLogin,
		Action: e2ehelpers.WaitURLEquals(cfg.URL("/login"), cfg.NavTimeout),
	})
	steps = append(steps, loginSteps(cfg, id)...)
	steps = append(steps,
		scenario.Step{
			Desc:   "dashboard totals visible",
			Phase:  scenario.PhaseVerifyingDomain,
			Action: e2ehelpers.WaitTextVisible("Contactos Totales", cfg.NavTimeout),
		},
		scenario.Step{
			Desc:   "capture dashboard screenshot",
			Phase:  scenario.PhaseCapturingArtifact,
			Action: e2ehelpers.Screenshot(filepath.Join(cfg.OutputDir, "dashboard_after_login.png")),
		},
	)
	return steps
}

// RegisterToast is the variant that requires the success toast before
// the redirect. When the toast or redirect does not happen, it logs
// every visible toast and the current URL before failing, and never
// proceeds to login.
func RegisterToast(cfg config.Config, id identity.Identity, log *zap.Logger) []scenario.Step {
	steps := registerSteps(cfg, id)
	steps = append(steps, scenario.Step{
		Desc:  "success toast then redirect to login",
		Phase: scenario.PhaseAwaitingLogin,
		Action: withToastDiagnostics(log, chromedp.Tasks{
			e2ehelpers.WaitToastContains("Registration successful!", cfg.WaitTimeout),
			e2ehelpers.WaitURLEquals(cfg.URL("/login"), 5*time.Second),
		}),
	})
	steps = append(steps, loginSteps(cfg, id)...)
	steps = append(steps,
		scenario.Step{
			Desc:   "dashboard totals visible",
			Phase:  scenario.PhaseVerifyingDomain,
			Action: e2ehelpers.WaitTextVisible("Contactos Totales", cfg.WaitTimeout),
		},
		scenario.Step{
			Desc:   "capture dashboard screenshot",
			Phase:  scenario.PhaseCapturingArtifact,
			Action: e2ehelpers.Screenshot(filepath.Join(cfg.OutputDir, "dashboard_after_login.png")),
		},
	)
	return steps
}

// withToastDiagnostics runs the action and, on failure, logs every toast
// text and the current URL before returning the original error.
func withToastDiagnostics(log *zap.Logger, action chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		err := action.Do(ctx)
		if err == nil {
			return nil
		}
		if toasts, terr := e2ehelpers.ToastTexts(ctx); terr == nil {
			log.Warn("registration did not succeed as expected",
				zap.Strings("toasts", toasts))
		}
		if url, uerr := e2ehelpers.CurrentURL(ctx); uerr == nil {
			log.Warn("current URL after failed registration", zap.String("url", url))
		}
		return err
	})
}

// FlowBuilder logs in with the seeded account, creates a flow, drags a
// message node onto the canvas, and toggles the template switch in the
// node inspector.
func FlowBuilder(cfg config.Config) []scenario.Step {
	id := identity.Seeded()
	return []scenario.Step{
		{
			Desc:  "open login form",
			Phase: scenario.PhaseLoggingIn,
			Action: chromedp.Tasks{
				e2ehelpers.ClearCookies(),
				chromedp.Navigate(cfg.URL("/login")),
			},
		},
		{
			Desc:  "log in with seeded account",
			Phase: scenario.PhaseLoggingIn,
			Action: chromedp.Tasks{
				e2ehelpers.FillByLabel("Email", id.Email),
				e2ehelpers.FillByLabel("Password", id.Password),
				e2ehelpers.ClickButton("Sign in"),
			},
		},
		{
			Desc:   "redirect to dashboard",
			Phase:  scenario.PhaseAwaitingDashboard,
			Action: e2ehelpers.WaitURLEquals(cfg.URL("/dashboard"), cfg.NavTimeout),
		},
		{
			Desc:  "create a new flow",
			Phase: scenario.PhaseVerifyingDomain,
			Action: chromedp.Tasks{
				chromedp.Navigate(cfg.URL("/dashboard/flows")),
				e2ehelpers.ClickButton("Crear flujo"),
				e2ehelpers.WaitTextVisible("Nodos", cfg.WaitTimeout),
			},
		},
		{
			Desc:  "drag message node onto the canvas",
			Phase: scenario.PhaseVerifyingDomain,
			Action: e2ehelpers.DragAndDrop(
				`div[data-node-type='message']`, `.react-flow__pane`, 200, 200),
		},
		{
			Desc:  "open node inspector and toggle template switch",
			Phase: scenario.PhaseVerifyingDomain,
			Action: chromedp.Tasks{
				e2ehelpers.JSClickLast(`.react-flow__node-message`),
				e2ehelpers.ClickByLabel("Use Template"),
			},
		},
		{
			Desc:   "capture flow builder screenshot",
			Phase:  scenario.PhaseCapturingArtifact,
			Action: e2ehelpers.Screenshot(filepath.Join(cfg.OutputDir, "verification.png")),
		},
	}
}

// SendMessage registers through the localized form, makes sure at least
// one contact exists (creating one through the modal when the list is
// empty), opens the first contact, and verifies the direct-message UI.
func SendMessage(cfg config.Config, id identity.Identity) []scenario.Step {
	return []scenario.Step{
		{
			Desc:  "register through localized form",
			Phase: scenario.PhaseRegistering,
			Action: chromedp.Tasks{
				e2ehelpers.ClearCookies(),
				chromedp.Navigate(cfg.URL("/register")),
				e2ehelpers.FillByLabel("Nombre completo", id.Name),
				e2ehelpers.FillByLabel("Correo electrónico", id.Email),
				e2ehelpers.FillByLabel("Contraseña", id.Password),
				e2ehelpers.FillByLabel("Confirmar contraseña", id.Password),
				e2ehelpers.ClickButton("Crear cuenta"),
			},
		},
		{
			Desc:   "redirect to login",
			Phase:  scenario.PhaseAwaitingLogin,
			Action: e2ehelpers.WaitURLEquals(cfg.URL("/login"), cfg.NavTimeout),
		},
		{
			Desc:  "log in through localized form",
			Phase: scenario.PhaseLoggingIn,
			Action: chromedp.Tasks{
				e2ehelpers.FillByLabel("Correo electrónico", id.Email),
				e2ehelpers.FillByLabel("Contraseña", id.Password),
				e2ehelpers.ClickButton("Iniciar sesión"),
			},
		},
		{
			Desc:   "redirect to dashboard",
			Phase:  scenario.PhaseAwaitingDashboard,
			Action: e2ehelpers.WaitURLEquals(cfg.URL("/dashboard"), cfg.NavTimeout),
		},
		{
			Desc:  "open contacts list",
			Phase: scenario.PhaseVerifyingDomain,
			Action: chromedp.Tasks{
				chromedp.Navigate(cfg.URL("/dashboard/contacts")),
				e2ehelpers.WaitNetworkIdle(cfg.NavTimeout),
			},
		},
		{
			Desc:   "ensure at least one contact exists",
			Phase:  scenario.PhaseVerifyingDomain,
			Action: ensureContactExists(cfg, id),
		},
		{
			Desc:  "open first contact detail page",
			Phase: scenario.PhaseVerifyingDomain,
			Action: chromedp.Tasks{
				e2ehelpers.Bounded(cfg.WaitTimeout,
					chromedp.WaitVisible(`a[href^="/dashboard/contacts/"]`, chromedp.ByQuery),
					chromedp.Click(`a[href^="/dashboard/contacts/"]`, chromedp.ByQuery),
				),
				e2ehelpers.WaitURLPrefix(cfg.URL("/dashboard/contacts/"), cfg.NavTimeout),
			},
		},
		{
			Desc:   "direct message UI present",
			Phase:  scenario.PhaseVerifyingDomain,
			Action: e2ehelpers.WaitTextVisible("Enviar mensaje directo", cfg.WaitTimeout),
		},
		{
			Desc:   "capture contact detail screenshot",
			Phase:  scenario.PhaseCapturingArtifact,
			Action: e2ehelpers.Screenshot(filepath.Join(cfg.OutputDir, "verification.png")),
		},
	}
}

// ensureContactExists creates a contact through the modal form when the
// list shows the empty state, then reloads so the table includes it.
// When contacts already exist it does nothing. Both branches leave the
// page with a populated contacts table.
func ensureContactExists(cfg config.Config, id identity.Identity) chromedp.Action {
	heading := e2ehelpers.HeadingXPath("Nuevo Contacto")
	return chromedp.ActionFunc(func(ctx context.Context) error {
		empty, err := e2ehelpers.IsTextVisible(ctx, "Aún no tienes contactos")
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}
		create := chromedp.Tasks{
			e2ehelpers.ClickButton("Nuevo contacto"),
			e2ehelpers.Bounded(cfg.WaitTimeout,
				chromedp.WaitVisible(heading, chromedp.BySearch)),
			e2ehelpers.FillByLabel("Nombre y Apellido", "Test Contact"),
			e2ehelpers.FillByLabel("Teléfono", id.Phone),
			e2ehelpers.ClickButton("Guardar Contacto"),
			e2ehelpers.WaitNotVisible(heading, cfg.WaitTimeout),
			chromedp.Reload(),
			e2ehelpers.WaitNetworkIdle(cfg.NavTimeout),
			e2ehelpers.Bounded(cfg.WaitTimeout,
				chromedp.WaitVisible("table", chromedp.ByQuery)),
		}
		return create.Do(ctx)
	})
}
