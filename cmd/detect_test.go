package cmd

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewDetectCommand tests that the detect command is created correctly.
func TestNewDetectCommand(t *testing.T) {
	cmd := NewDetectCommand(testParseDeps(""))

	if cmd == nil {
		t.Fatal("NewDetectCommand returned nil")
	}
	if !strings.HasPrefix(cmd.Use, "detect") {
		t.Errorf("Use = %v, want prefix 'detect'", cmd.Use)
	}
	if cmd.Flags().Lookup("quiet") == nil {
		t.Error("--quiet flag should be registered")
	}
}

// TestDetectCommand_Transcript tests detection of a real transcript.
func TestDetectCommand_Transcript(t *testing.T) {
	deps := testParseDeps("alice: hello\nbob: hi\nalice: bye\nbob: see you")

	cmd := NewDetectCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Chat transcript") {
		t.Errorf("output = %q, want transcript message", buf.String())
	}
}

// TestDetectCommand_NotTranscript tests that prose fails with an error.
func TestDetectCommand_NotTranscript(t *testing.T) {
	deps := testParseDeps("Note: remember to submit the form by Friday.")

	cmd := NewDetectCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() should fail for non-transcript input")
	}
	if !strings.Contains(buf.String(), "Not a chat transcript") {
		t.Errorf("output = %q, want not-a-transcript message", buf.String())
	}
}

// TestDetectCommand_Quiet tests that --quiet suppresses output.
func TestDetectCommand_Quiet(t *testing.T) {
	deps := testParseDeps("alice: hello\nbob: hi\nalice: bye\nbob: see you")

	cmd := NewDetectCommand(deps)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--quiet"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty with --quiet", buf.String())
	}
}

// TestDetectCommand_StructuredBlockOnly tests that a lone structured block
// still qualifies as a transcript.
func TestDetectCommand_StructuredBlockOnly(t *testing.T) {
	deps := testParseDeps("takeaway: [TAKEAWAY] Focus on active listening.")

	cmd := NewDetectCommand(deps)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--quiet"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("Execute() error = %v, structured block should qualify", err)
	}
}
