// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Constants for consent responses.
const (
	ConsentYes = "yes"
	ConsentY   = "y"
)

// PromptConsentWithReader asks a yes/no question on writer and reads the
// answer from reader. Anything but y/yes declines.
func PromptConsentWithReader(prompt string, autoYes bool, reader io.Reader, writer io.Writer) (bool, error) {
	if autoYes {
		_, _ = fmt.Fprintf(writer, "Auto-accepting: %s\n", prompt)
		return true, nil
	}

	_, _ = fmt.Fprintf(writer, "%s [y/N]: ", prompt)

	response, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || response == "") {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))

	return response == ConsentY || response == ConsentYes, nil
}
