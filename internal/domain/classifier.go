// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"strings"

	"github.com/stryk91/phishri-installer/internal/stringutil"
)

// Classification is the semantic reading of one worker output line.
type Classification struct {
	Severity Severity
	Step     string
}

// LineClassifier turns raw worker output into a Classification.
// Implementations must be pure: the same line always yields the same result.
type LineClassifier interface {
	Classify(line string) Classification
}

// SeverityTag maps a bracketed marker to a severity.
type SeverityTag struct {
	Tag      string
	Severity Severity
}

// StepRule maps any of its keywords to a step label.
type StepRule struct {
	Keywords []string
	Step     string
}

// KeywordClassifier matches case-sensitive substrings from ordered tables.
// The first matching tag and the first matching rule win.
type KeywordClassifier struct {
	tags        []SeverityTag
	rules       []StepRule
	defaultStep string
}

// DefaultSeverityTags is the tag table in priority order.
func DefaultSeverityTags() []SeverityTag {
	return []SeverityTag{
		{Tag: "[OK]", Severity: SeverityOK},
		{Tag: "[WARN]", Severity: SeverityWarn},
		{Tag: "[ERROR]", Severity: SeverityError},
		{Tag: "[INFO]", Severity: SeverityInfo},
	}
}

// DefaultStepRules is the topic keyword table in priority order.
func DefaultStepRules() []StepRule {
	return []StepRule{
		{Keywords: []string{"prerequisites", "Prerequisites"}, Step: StepPrerequisites},
		{Keywords: []string{"directory", "Directory"}, Step: StepDirectories},
		{Keywords: []string{"binary", "Binary", "MCP"}, Step: StepBinary},
		{Keywords: []string{"knowledge", "Knowledge", "CONTEXTS"}, Step: StepKnowledge},
		{Keywords: []string{"config", "Config", "Claude"}, Step: StepConfigure},
		{Keywords: []string{"verif", "Verif"}, Step: StepVerify},
	}
}

// NewKeywordClassifier returns a classifier using the default tables.
func NewKeywordClassifier() *KeywordClassifier {
	return NewKeywordClassifierWithTables(DefaultSeverityTags(), DefaultStepRules())
}

// NewKeywordClassifierWithTables returns a classifier using custom tables.
func NewKeywordClassifierWithTables(tags []SeverityTag, rules []StepRule) *KeywordClassifier {
	return &KeywordClassifier{
		tags:        tags,
		rules:       rules,
		defaultStep: StepProcessing,
	}
}

// Classify implements LineClassifier. Severity and step are resolved
// independently of each other.
func (c *KeywordClassifier) Classify(line string) Classification {
	return Classification{
		Severity: c.severity(line),
		Step:     c.step(line),
	}
}

func (c *KeywordClassifier) severity(line string) Severity {
	for _, tag := range c.tags {
		if strings.Contains(line, tag.Tag) {
			return tag.Severity
		}
	}

	return SeverityInfo
}

func (c *KeywordClassifier) step(line string) string {
	for _, rule := range c.rules {
		if stringutil.ContainsAny(line, rule.Keywords) {
			return rule.Step
		}
	}

	return c.defaultStep
}

var defaultClassifier = NewKeywordClassifier() //nolint:gochecknoglobals

// Classify classifies a line with the default keyword tables.
func Classify(line string) (Severity, string) {
	c := defaultClassifier.Classify(line)

	return c.Severity, c.Step
}
