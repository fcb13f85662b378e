package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidOutputFormat = errors.New("invalid output format")

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

func ParseOutputFormat(rawInput string) (OutputFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawInput))
	if normalized == "" {
		return OutputFormatText, nil
	}

	format := OutputFormat(normalized)
	switch format {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	case "yml":
		return OutputFormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOutputFormat, rawInput)
	}
}
