package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/pharmstruct/pkg/cache"
)

// LoadSamples reads a YAML list of sample reports for cache population:
//
//	- id: diabetes_trial
//	  text: |
//	    STUDY TITLE: ...
func LoadSamples(path string) ([]cache.SampleReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read samples file: %w", err)
	}

	var samples []cache.SampleReport
	if err := yaml.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parse samples file %s: %w", path, err)
	}
	return samples, nil
}
