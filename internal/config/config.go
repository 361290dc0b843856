// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format            string `yaml:"format"`
		OutputDir         string `yaml:"output_dir"`
		AddressValidation string `yaml:"address_validation"`
		Workers           int    `yaml:"workers"`
		Debug             bool   `yaml:"debug"`
		NoColor           bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Matching thresholds, all on a 0-1 scale
	Matching struct {
		// Minimum similarity for two name tokens to count as matching
		PartSimilarity float64 `yaml:"part_similarity"`
		// Minimum similarity for a short token to be treated as a
		// nickname variant of a longer one during name merging
		NicknameSimilarity float64 `yaml:"nickname_similarity"`
		// Minimum organization similarity for a name-only match to
		// survive when both records carry an organization
		OrgSimilarity float64 `yaml:"org_similarity"`
	} `yaml:"matching"`

	// Name normalization token sets
	Names struct {
		Prefixes  []string `yaml:"prefixes"`
		Suffixes  []string `yaml:"suffixes"`
		Particles []string `yaml:"particles"`
	} `yaml:"names"`

	// Phone normalization settings
	Phone struct {
		DefaultRegion string `yaml:"default_region"`
		// Country calling codes used to reconcile international vs
		// local formats ("+44 20 ..." vs "020 ...")
		CountryPrefixes []string `yaml:"country_prefixes"`
	} `yaml:"phone"`

	// Address cleaning and enrichment settings
	Address struct {
		ExpandAbbreviations bool   `yaml:"expand_abbreviations"`
		Endpoint            string `yaml:"endpoint"`
		APIKeyEnv           string `yaml:"api_key_env"`
		TimeoutSeconds      int    `yaml:"timeout_seconds"`
	} `yaml:"address"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.OutputDir = "output"
	config.Defaults.AddressValidation = "clean"
	config.Defaults.Workers = 1

	config.Matching.PartSimilarity = 0.8
	config.Matching.NicknameSimilarity = 0.8
	config.Matching.OrgSimilarity = 0.8

	config.Names.Prefixes = []string{"Dr", "Prof", "Mr", "Mrs", "Ms"}
	config.Names.Suffixes = []string{"II", "III", "IV", "MD", "PhD", "Jr", "Sr"}
	config.Names.Particles = []string{"von", "van", "de", "la", "das", "dos", "der", "den"}

	config.Phone.DefaultRegion = "US"
	config.Phone.CountryPrefixes = defaultCountryPrefixes()

	config.Address.ExpandAbbreviations = false
	config.Address.Endpoint = "https://addressvalidation.googleapis.com/v1:validateAddress"
	config.Address.APIKeyEnv = "GOOGLE_API_KEY"
	config.Address.TimeoutSeconds = 10

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations.
// Returns an empty string when none exists, which makes LoadConfig fall
// back to defaults.
func FindConfigFile() string {
	if fileExists("contact-dedupe.yaml") {
		return "contact-dedupe.yaml"
	}
	if fileExists(".contact-dedupe.yaml") {
		return ".contact-dedupe.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".config", "contact-dedupe", "config.yaml")
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// ValidateConfig checks configuration values for consistency
func ValidateConfig(config *Config) error {
	for name, v := range map[string]float64{
		"matching.part_similarity":     config.Matching.PartSimilarity,
		"matching.nickname_similarity": config.Matching.NicknameSimilarity,
		"matching.org_similarity":      config.Matching.OrgSimilarity,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}

	switch config.Defaults.AddressValidation {
	case "none", "clean", "full":
	default:
		return fmt.Errorf("defaults.address_validation must be one of none, clean, full; got %q",
			config.Defaults.AddressValidation)
	}

	if config.Defaults.Workers < 1 {
		return fmt.Errorf("defaults.workers must be at least 1, got %d", config.Defaults.Workers)
	}
	if config.Address.TimeoutSeconds < 1 {
		return fmt.Errorf("address.timeout_seconds must be at least 1, got %d", config.Address.TimeoutSeconds)
	}
	if len(config.Phone.DefaultRegion) != 2 {
		return fmt.Errorf("phone.default_region must be a 2-letter region code, got %q", config.Phone.DefaultRegion)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// defaultCountryPrefixes returns the calling codes the phone normalizer
// reconciles against when one number carries a country code and the
// other is in local format.
func defaultCountryPrefixes() []string {
	return []string{
		// North America
		"1",
		// Europe
		"30", "31", "32", "33", "34", "36", "39", "40", "41", "43",
		"44", "45", "46", "47", "48", "49",
		// Asia
		"81", "82", "84", "86", "852", "855", "886", "91", "92", "95", "966",
		// Oceania
		"61", "64",
		// Latin America
		"51", "52", "54", "55", "56", "57", "58",
		// Africa
		"20", "212", "234", "27",
		// Middle East
		"971", "972", "974",
	}
}
