// =============================================================================
// help_test.go - Tests for Shell Help (help.go)
// =============================================================================
//
// printHelp takes its writers as parameters, so tests hand it buffers
// instead of redirecting os.Stdout.
//
// =============================================================================

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpOverview(t *testing.T) {
	var out, errOut bytes.Buffer
	printHelp(&out, &errOut, "")

	for _, cmd := range []string{"list", "play", "del", "upload", "reset", "help", "quit"} {
		assert.Contains(t, out.String(), "  "+cmd)
	}
	assert.Empty(t, errOut.String())
}

// GO CONCEPT: Table-Driven Subtests
// ----------------------------------
// Each row runs under t.Run with its own name, so a failure reports which
// topic broke and `go test -run TestHelpTopic/rm` reruns just that row.
//
// Compare with Python: @pytest.mark.parametrize.
func TestHelpTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"list", "last size"},
		{"PLAY", "Example: play nyan.gif"},
		{"rm", "after confirmation"},
		{"up", "stored as my_cat.gif"},
		{"q", "Ctrl-D"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			var out, errOut bytes.Buffer
			printHelp(&out, &errOut, tt.topic)
			assert.Contains(t, out.String(), tt.want)
			assert.Empty(t, errOut.String())
		})
	}
}

func TestHelpUnknownTopic(t *testing.T) {
	var out, errOut bytes.Buffer
	printHelp(&out, &errOut, "dance")

	assert.Empty(t, out.String())
	assert.Equal(t, "Error: No help for 'dance'. Type help to see available commands.\n", errOut.String())
}

// Every alias must point at an existing entry.
func TestHelpAliasesResolve(t *testing.T) {
	for alias, target := range helpAliases {
		_, ok := commandHelp[target]
		assert.True(t, ok, "alias %q points at missing entry %q", alias, target)
	}
}
