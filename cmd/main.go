// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for the PhiSHRI installer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stryk91/phishri-installer/internal/cli"
	"github.com/stryk91/phishri-installer/internal/domain"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewCLI(cli.WithVersion(version))

	if err := app.Run(ctx, os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Unexpected error: %v\n", err)

		return domain.ExitGeneralError
	}

	return domain.ExitSuccess
}
