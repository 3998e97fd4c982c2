// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wagtail-net/wagtail/internal/logger"
	"github.com/wagtail-net/wagtail/pkg/config"
	"github.com/wagtail-net/wagtail/pkg/wagtail"
)

// NewCmdRun creates a new run command
func NewCmdRun() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the wagtail agent",
		Long:  "Run the wagtail agent with the configured checks",
		RunE:  run,
	}
}

// run is the entry point to start the wagtail agent
func run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logger.IntoContext(ctx, logger.NewLogger().With("component", "run"))
	log := logger.FromContext(ctx)

	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(ctx); err != nil {
		return fmt.Errorf("error while validating the config: %w", err)
	}

	w, err := wagtail.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create wagtail: %w", err)
	}

	log.InfoContext(ctx, "Running wagtail")
	if err := w.Run(ctx); err != nil {
		if errors.Is(err, wagtail.ErrFinalShutdown) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("error while running wagtail: %w", err)
	}
	return nil
}
