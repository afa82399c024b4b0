// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package observability wires logging and tracing for the installer.
package observability

import (
	"fmt"
	"io"

	"github.com/bombsimon/logrusr/v3"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"

	"github.com/stryk91/phishri-installer/internal/config"
)

// NewLogger builds a logr.Logger backed by logrus. V(1) messages appear
// at debug level.
func NewLogger(cfg config.LogConfig, out io.Writer) (logr.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return logr.Discard(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	logrusLog := logrus.New()
	logrusLog.SetOutput(out)
	logrusLog.SetLevel(level)

	switch cfg.Format {
	case "json":
		logrusLog.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrusLog.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return logr.Discard(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return logrusr.New(logrusLog), nil
}
