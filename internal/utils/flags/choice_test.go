package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			description:    "Override the configured log format.",
			expectedOutput: "`<STRUCTURED|console>` Override the configured log format.",
		},
		{
			name:           "NoDefaultChoice",
			defaultChoice:  "",
			choices:        []string{"beta", "prod", "test"},
			description:    "Target environment.",
			expectedOutput: "`<beta|prod|test>` Target environment.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "info",
			choices:        []string{"debug", "info"},
			description:    "",
			expectedOutput: "`<debug|INFO>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "prod",
			choices:        []string{"prod", "prod", "beta", "Beta"},
			description:    "Select between options.",
			expectedOutput: "`<PROD|beta>` Select between options.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "test",
			choices:        []string{" test ", " beta "},
			description:    "Pick a network.",
			expectedOutput: "`<TEST|beta>` Pick a network.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestMatchChoice(t *testing.T) {
	choices := []string{"beta", "prod", "test"}

	testCases := []struct {
		name          string
		candidate     string
		expectedMatch string
		expectedFound bool
	}{
		{name: "ExactMatch", candidate: "prod", expectedMatch: "prod", expectedFound: true},
		{name: "CaseInsensitive", candidate: " BETA ", expectedMatch: "beta", expectedFound: true},
		{name: "UnknownChoice", candidate: "production", expectedFound: false},
		{name: "EmptyCandidate", candidate: "   ", expectedFound: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			match, found := MatchChoice(testCase.candidate, choices)
			require.Equal(t, testCase.expectedFound, found)
			require.Equal(t, testCase.expectedMatch, match)
		})
	}
}
