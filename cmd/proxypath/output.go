package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MarkoPoloResearchLab/proxypath/pkg/proxypath"
)

const yamlIndentSpaces = 2

type resolutionRecord struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	ProxyPath string `json:"proxy_path" yaml:"proxy_path"`
	Source    string `json:"source" yaml:"source"`
}

func newResolutionRecords(resolutions []proxypath.Resolution) []resolutionRecord {
	records := make([]resolutionRecord, 0, len(resolutions))
	for _, resolution := range resolutions {
		records = append(records, resolutionRecord{
			BaseURL:   resolution.BaseURL,
			ProxyPath: resolution.Path,
			Source:    string(resolution.Source),
		})
	}
	return records
}

func writeResolutions(writer io.Writer, format OutputFormat, resolutions []proxypath.Resolution) error {
	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newResolutionRecords(resolutions))
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(yamlIndentSpaces)
		if encodeErr := encoder.Encode(newResolutionRecords(resolutions)); encodeErr != nil {
			return encodeErr
		}
		return encoder.Close()
	default:
		for _, resolution := range resolutions {
			if _, writeErr := fmt.Fprintln(writer, resolution.Path); writeErr != nil {
				return writeErr
			}
		}
		return nil
	}
}
