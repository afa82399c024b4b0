// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import "os"

// proxyVars are the proxy variables passed on to the worker, lowercase first.
var proxyVars = [][2]string{ //nolint:gochecknoglobals // fixed lookup table
	{"http_proxy", "HTTP_PROXY"},
	{"https_proxy", "HTTPS_PROXY"},
	{"no_proxy", "NO_PROXY"},
}

// GetProxyEnv returns proxy-related environment variables for passing to the
// worker, which downloads its script over the network. Both cases are
// exported; the lowercase variable takes precedence per Unix convention.
func GetProxyEnv() []string {
	return GetProxyEnvWithLookup(os.Getenv)
}

// GetProxyEnvWithLookup returns the proxy variables using a custom lookup for testing.
func GetProxyEnvWithLookup(getenv func(string) string) []string {
	var proxyEnv []string

	for _, pair := range proxyVars {
		value := getenv(pair[0])
		if value == "" {
			value = getenv(pair[1])
		}

		if value != "" {
			proxyEnv = append(proxyEnv, pair[0]+"="+value, pair[1]+"="+value)
		}
	}

	return proxyEnv
}

// HasProxy checks if any proxy is configured.
func HasProxy() bool {
	return len(GetProxyEnv()) > 0
}
