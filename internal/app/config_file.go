package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
	PDF    string `yaml:"pdf" json:"pdf"`
	Format string `yaml:"format" json:"format"`
	Mode   string `yaml:"mode" json:"mode"`
	Policy string `yaml:"policy" json:"policy"`

	ShowOriginal bool     `yaml:"showOriginal" json:"showOriginal"`
	Verbose      bool     `yaml:"verbose" json:"verbose"`
	Delay        Duration `yaml:"delay" json:"delay"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	HF struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"hf" json:"hf"`

	Cache struct {
		Dir         string   `yaml:"dir" json:"dir"`
		MaxAge      Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool     `yaml:"clear" json:"clear"`
		StrictPerms bool     `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	UserAgent string `yaml:"userAgent" json:"userAgent"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays non-zero values from fc onto cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.InputPath, fc.Input)
	set(&cfg.OutputPath, fc.Output)
	set(&cfg.PDFPath, fc.PDF)
	set(&cfg.Format, fc.Format)
	set(&cfg.Mode, fc.Mode)
	set(&cfg.Policy, fc.Policy)
	set(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	set(&cfg.LLMModel, fc.LLM.Model)
	set(&cfg.LLMAPIKey, fc.LLM.APIKey)
	set(&cfg.HFBaseURL, fc.HF.BaseURL)
	set(&cfg.HFModel, fc.HF.Model)
	set(&cfg.HFAPIKey, fc.HF.APIKey)
	set(&cfg.CacheDir, fc.Cache.Dir)
	set(&cfg.UserAgent, fc.UserAgent)

	if fc.ShowOriginal {
		cfg.ShowOriginal = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	if fc.Delay > 0 {
		cfg.Delay = fc.Delay.Std()
	}
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge.Std()
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
}
