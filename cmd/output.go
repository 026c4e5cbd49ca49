package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/pkg/segment"
)

// readInput reads the text to segment. An empty path or "-" reads stdin.
// Returns the raw text and a source label for storage and display.
func readInput(stdin io.Reader, path string) (string, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "-", nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", "", fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}

// resolveOutputFormat determines the output format from flag and config.
func resolveOutputFormat(cfg *config.CLIConfig, flagValue string) config.OutputFormat {
	if flagValue != "" {
		return config.OutputFormat(flagValue)
	}
	if cfg != nil && cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return config.OutputFormatText
}

// outputParseResult renders a parse result in the requested format.
func outputParseResult(w io.Writer, format config.OutputFormat, result ParseResult) error {
	switch format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case config.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		return enc.Encode(result)
	default:
		return outputParseResultText(w, result)
	}
}

// outputParseResultText renders a parse result in human-readable form.
func outputParseResultText(w io.Writer, result ParseResult) error {
	if !result.Transcript {
		fmt.Fprintln(w, "Not a chat transcript.")
		return nil
	}

	fmt.Fprintf(w, "Transcript: %d segment(s), %d speaker(s)\n", len(result.Segments), len(result.Speakers))
	fmt.Fprintln(w, strings.Repeat("=", 50))

	for i, seg := range result.Segments {
		label := seg.Speaker
		if seg.Kind != segment.KindDialogue {
			label = fmt.Sprintf("%s [%s]", seg.Speaker, seg.Kind)
		}
		fmt.Fprintf(w, "%3d. \033[1m%s\033[0m\n", i+1, label)
		for _, line := range strings.Split(seg.Content, "\n") {
			fmt.Fprintf(w, "     %s\n", line)
		}
	}

	if result.Explanation != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Explanation:")
		for _, line := range strings.Split(result.Explanation, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	return nil
}
