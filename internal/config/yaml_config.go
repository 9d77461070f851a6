package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"plum/internal/keywords"
)

// YAMLConfig represents the structure of the config.yaml file.
// Structured settings that are easier to manage in YAML than env vars.
type YAMLConfig struct {
	BrandPresets []BrandPreset         `yaml:"brand_presets"`
	Tours        []TourConfig          `yaml:"tours"`
	Counting     keywords.CountOptions `yaml:"counting"`
	Posts        PostsConfig           `yaml:"posts"`
}

// BrandPreset is an industry template offered when creating a brand.
type BrandPreset struct {
	Industry   string   `yaml:"industry"`
	Keywords   []string `yaml:"keywords"`
	Subreddits []string `yaml:"subreddits"`
}

// TourConfig declares an onboarding tour. Bumping Version shows it again.
type TourConfig struct {
	Name    string `yaml:"name"`
	Version int    `yaml:"version"`
}

// PostsConfig controls post sourcing from the backend.
type PostsConfig struct {
	Limit       int `yaml:"limit"`        // Posts fetched per request
	TopKeywords int `yaml:"top_keywords"` // Entries in the top keyword list
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// A missing file yields the defaults.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads the YAML configuration from path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	var cfg YAMLConfig

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// Set defaults
	if len(cfg.Counting.Fields) == 0 {
		cfg.Counting.Fields = keywords.DefaultFields
	}
	if cfg.Posts.Limit <= 0 {
		cfg.Posts.Limit = 50
	}
	if cfg.Posts.TopKeywords <= 0 {
		cfg.Posts.TopKeywords = keywords.DefaultTopN
	}

	return &cfg, nil
}

// GetBrandPreset finds a preset by industry.
func (c *YAMLConfig) GetBrandPreset(industry string) *BrandPreset {
	if c == nil {
		return nil
	}
	for i := range c.BrandPresets {
		if c.BrandPresets[i].Industry == industry {
			return &c.BrandPresets[i]
		}
	}
	return nil
}

// GetTour finds a tour by name.
func (c *YAMLConfig) GetTour(name string) *TourConfig {
	if c == nil {
		return nil
	}
	for i := range c.Tours {
		if c.Tours[i].Name == name {
			return &c.Tours[i]
		}
	}
	return nil
}
