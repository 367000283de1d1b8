package ai

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StageProfile holds the request knobs used for one pipeline stage.
type StageProfile struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Settings maps each stage to its profile. Missing fields fall back to defaults.
type Settings struct {
	Stages map[Stage]StageProfile `yaml:"stages"`
}

// DefaultModel returns the model used when AI_MODEL is not set.
func DefaultModel(provider string) string {
	if strings.EqualFold(provider, anthropicProvider) {
		return "claude-sonnet-4-20250514"
	}
	return "gpt-4o-mini"
}

// DefaultSettings uses model for every stage.
func DefaultSettings(model string) Settings {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel(openAIProvider)
	}
	return Settings{Stages: map[Stage]StageProfile{
		StageAnalyze:  {Model: model, MaxTokens: 400, Temperature: 0.3},
		StageOptimize: {Model: model, MaxTokens: 3000, Temperature: 0.6},
		StageVary:     {Model: model, MaxTokens: 4000, Temperature: 0.8},
	}}
}

// stageOverride is one stage as written in the settings file. Temperature is
// a pointer so that an explicit 0 is told apart from an absent key.
type stageOverride struct {
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
}

type settingsFile struct {
	Stages map[Stage]stageOverride `yaml:"stages"`
}

// LoadSettings reads a YAML settings file on top of DefaultSettings(model).
// An empty path returns the defaults.
//
//	stages:
//	  optimize:
//	    model: gpt-4o
//	    max_tokens: 4000
//	    temperature: 0
func LoadSettings(path, model string) (Settings, error) {
	settings := DefaultSettings(model)
	if strings.TrimSpace(path) == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read ai settings %s: %w", path, err)
	}

	var file settingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return settings, fmt.Errorf("parse ai settings %s: %w", path, err)
	}

	for stage, p := range file.Stages {
		base, ok := settings.Stages[stage]
		if !ok {
			return settings, fmt.Errorf("ai settings %s: unknown stage %q", path, stage)
		}
		if p.Model != "" {
			base.Model = p.Model
		}
		if p.MaxTokens > 0 {
			base.MaxTokens = p.MaxTokens
		}
		if p.Temperature != nil {
			if *p.Temperature < 0 || *p.Temperature > 2 {
				return settings, fmt.Errorf("ai settings %s: stage %q: temperature %v out of range [0, 2]", path, stage, *p.Temperature)
			}
			base.Temperature = *p.Temperature
		}
		settings.Stages[stage] = base
	}
	return settings, nil
}

// Profile returns the profile for stage, or the analyze profile for unknown stages.
func (s Settings) Profile(stage Stage) StageProfile {
	if p, ok := s.Stages[stage]; ok {
		return p
	}
	return s.Stages[StageAnalyze]
}
