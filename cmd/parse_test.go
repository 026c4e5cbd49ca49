// Package cmd provides CLI commands for the chatseg tool.
package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/pkg/observability"
)

// testParseDeps returns parse deps with stdin content and an isolated
// metric registry.
func testParseDeps(input string) *ParseCommandDeps {
	return &ParseCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) {
			return config.DefaultConfig(), nil
		},
		Metrics: observability.NewMetrics(prometheus.NewRegistry()),
		Stdin:   strings.NewReader(input),
	}
}

// TestNewParseCommand tests that the parse command is created correctly.
func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand(testParseDeps(""))

	if cmd == nil {
		t.Fatal("NewParseCommand returned nil")
	}
	if !strings.HasPrefix(cmd.Use, "parse") {
		t.Errorf("Use = %v, want prefix 'parse'", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	for _, flag := range []string{"allow-single", "regex-html", "output"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("--%s flag should be registered", flag)
		}
	}
}

// TestParseCommand_StdinJSON tests segmenting stdin with JSON output.
func TestParseCommand_StdinJSON(t *testing.T) {
	input := "alice: hello there\nbob: hi\nalice: how are you?"
	deps := testParseDeps(input)

	cmd := NewParseCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--output=json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result ParseResult
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if !result.Transcript {
		t.Error("Transcript = false, want true")
	}
	if len(result.Segments) != 3 {
		t.Fatalf("len(Segments) = %d, want 3", len(result.Segments))
	}
	if result.Segments[0].Speaker != "alice" || result.Segments[0].Content != "hello there" {
		t.Errorf("first segment = %+v", result.Segments[0])
	}
	if len(result.Speakers) != 2 {
		t.Errorf("Speakers = %v, want [alice bob]", result.Speakers)
	}
}

// TestParseCommand_NotTranscript tests prose input.
func TestParseCommand_NotTranscript(t *testing.T) {
	deps := testParseDeps("Just a paragraph of ordinary prose without any markers.")

	cmd := NewParseCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Not a chat transcript") {
		t.Errorf("output = %q, want not-a-transcript message", buf.String())
	}
}

// TestParseCommand_AllowSingle tests that --allow-single admits singletons.
func TestParseCommand_AllowSingle(t *testing.T) {
	input := "alice: hello\nbob: hi"
	deps := testParseDeps(input)

	cmd := NewParseCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--allow-single", "--output=json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result ParseResult
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(result.Segments) != 2 {
		t.Errorf("len(Segments) = %d, want 2", len(result.Segments))
	}
}

// TestParseCommand_Explanation tests the trailing explanation field.
func TestParseCommand_Explanation(t *testing.T) {
	input := "alice: hi\nbob: hello\nalice: bye\nbob: bye\n---\nThis was a greeting exercise."
	deps := testParseDeps(input)

	cmd := NewParseCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--output=json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result ParseResult
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if result.Explanation != "This was a greeting exercise." {
		t.Errorf("Explanation = %q", result.Explanation)
	}
}

// TestParseCommand_MissingFile tests the error for a nonexistent path.
func TestParseCommand_MissingFile(t *testing.T) {
	deps := testParseDeps("")

	cmd := NewParseCommand(deps)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/transcript.txt"})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() should fail for a missing file")
	}
}

// TestDialogueSpeakers tests speaker dedup and structured-block exclusion.
func TestDialogueSpeakers(t *testing.T) {
	deps := testParseDeps("alice: a\ntakeaway: [TAKEAWAY] note\nbob: b\nalice: c\nbob: d")

	cmd := NewParseCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--output=json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result ParseResult
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, sp := range result.Speakers {
		if sp == "takeaway" {
			t.Error("structured block label should not be listed as a speaker")
		}
	}
}
