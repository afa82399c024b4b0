// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InstallMethod selects how the worker installs. The core passes it through
// to the worker without interpreting it.
type InstallMethod string

// Install methods accepted by the worker.
const (
	MethodAuto   InstallMethod = "Auto"
	MethodMcpb   InstallMethod = "Mcpb"
	MethodDxt    InstallMethod = "Dxt"
	MethodManual InstallMethod = "Manual"
)

// InstallMethods returns every method in display order.
func InstallMethods() []InstallMethod {
	return []InstallMethod{MethodAuto, MethodMcpb, MethodDxt, MethodManual}
}

// IsValid reports whether m is one of the known methods.
func (m InstallMethod) IsValid() bool {
	switch m {
	case MethodAuto, MethodMcpb, MethodDxt, MethodManual:
		return true
	default:
		return false
	}
}

func (m InstallMethod) String() string {
	return string(m)
}

// ParseInstallMethod accepts a method name in any case. An empty name
// selects MethodAuto.
func ParseInstallMethod(name string) (InstallMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MethodAuto, nil
	}

	method := InstallMethod(cases.Title(language.Und).String(strings.ToLower(name)))
	if !method.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: Auto, Mcpb, Dxt, Manual)", ErrInvalidMethod, name)
	}

	return method, nil
}
