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

// contactflow-verify drives a browser against a running ContactFlow
// dashboard and verifies the registration, login, flow builder, and
// contact messaging flows, saving screenshot evidence. The target
// origin comes from the BASE_URL environment variable (default
// http://localhost:3000). The process exits non-zero when any
// scenario fails.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ttbt-io/contactflow-verify/internal/config"
	"github.com/ttbt-io/contactflow-verify/internal/scenario"
	"github.com/ttbt-io/contactflow-verify/internal/verify"
	"github.com/ttbt-io/contactflow-verify/tools/e2ehelpers"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()
	var (
		headful  bool
		parallel bool
	)

	root := &cobra.Command{
		Use:           "contactflow-verify",
		Short:         "Browser-driven verification of the ContactFlow dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.ChromeURL, "chrome-url", "",
		"remote debugging URL of a running Chrome; launches a local browser when empty")
	root.PersistentFlags().StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir,
		"directory for screenshot artifacts")
	root.PersistentFlags().BoolVar(&headful, "headful", false,
		"run the locally launched browser with a visible window")

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	runOne := func(cmd *cobra.Command, sc verify.Scenario) error {
		cfg.Headless = !headful
		if err := cfg.Validate(); err != nil {
			return err
		}
		runner := newRunner(cfg, log)
		res, err := runner.Run(cmd.Context(), sc.Name, sc.Steps())
		if err != nil {
			return fmt.Errorf("scenario %s failed in state %s: %w", sc.Name, res.State, err)
		}
		return nil
	}

	for _, sc := range verify.Scenarios(cfg, log) {
		sc := sc
		root.AddCommand(&cobra.Command{
			Use:   sc.Name,
			Short: sc.Description,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runOne(cmd, sc)
			},
		})
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Run every verification scenario",
		Long: "Run every verification scenario. Scenarios are independent and each uses " +
			"a fresh identity, so they may run in parallel; note that the flow-builder " +
			"and send-message scenarios write the same artifact path, last writer wins.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Headless = !headful
			if err := cfg.Validate(); err != nil {
				return err
			}
			scs := verify.Scenarios(cfg, log)
			if !parallel {
				var failed int
				for _, sc := range scs {
					if err := runOne(cmd, sc); err != nil {
						log.Error("scenario failed", zap.String("scenario", sc.Name), zap.Error(err))
						failed++
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d scenarios failed", failed, len(scs))
				}
				return nil
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			for _, sc := range scs {
				sc := sc
				g.Go(func() error {
					runner := newRunner(cfg, log)
					if _, err := runner.Run(ctx, sc.Name, sc.Steps()); err != nil {
						return fmt.Errorf("scenario %s: %w", sc.Name, err)
					}
					return nil
				})
			}
			return g.Wait()
		},
	}
	all.Flags().BoolVar(&parallel, "parallel", false, "run scenarios concurrently")
	root.AddCommand(all)

	return root
}

// newRunner wires the debug-screenshot failure hook: when a step fails
// the hook saves the page as debug-<scenario>.png next to the success
// artifacts, never overwriting them.
func newRunner(cfg config.Config, log *zap.Logger) *scenario.Runner {
	return scenario.NewRunner(cfg, log).WithFailureHook(
		func(ctx context.Context, name string, stepErr error) {
			path := filepath.Join(cfg.OutputDir, fmt.Sprintf("debug-%s.png", name))
			if err := e2ehelpers.CaptureScreenshot(ctx, path); err != nil {
				log.Warn("debug screenshot failed", zap.String("scenario", name), zap.Error(err))
			}
		})
}
