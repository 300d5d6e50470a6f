// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Output formats of Encode.
const (
	FormatYAML = "yaml"
	FormatHCL  = "hcl"
)

// ErrEncodeConfig is returned when settings cannot be encoded.
var ErrEncodeConfig = errors.New("failed to encode config")

// Mask replaces secrets in Redacted settings.
const Mask = "********"

// Redacted returns a copy of c with the API keys and the database password masked.
func (c Config) Redacted() Config {
	for _, s := range []*string{&c.API.APIKey, &c.API.UnblockKey, &c.DB.Password} {
		if *s != "" {
			*s = Mask
		}
	}

	return c
}

// Example returns settings with every field filled in.
func Example() *Config {
	return &Config{
		API: API{
			BaseURL:            "https://dataverse.example.org",
			APIKey:             "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx",
			UnblockKey:         "unblock-key",
			HTTPTimeoutSeconds: 30,
		},
		DB: DB{
			Host:     "localhost",
			Port:     5432,
			Database: "dvndb",
			User:     "dvnuser",
			Password: "dvnsecret",
			SSLMode:  "disable",
		},
	}
}

// Encode renders c as a settings file in format.
func Encode(c *Config, format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		b, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.Join(ErrEncodeConfig, err)
		}

		return b, nil

	case FormatHCL:
		f := hclwrite.NewEmptyFile()
		gohcl.EncodeIntoBody(&hclFile{API: &c.API, DB: &c.DB}, f.Body())

		return f.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
