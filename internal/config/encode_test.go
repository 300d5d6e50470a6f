// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Redacted(t *testing.T) {
	cfg := Example()
	cfg.API.UnblockKey = ""

	r := cfg.Redacted()

	assert.Equal(t, "********", r.API.APIKey)
	assert.Empty(t, r.API.UnblockKey)
	assert.Equal(t, "********", r.DB.Password)
	assert.Equal(t, "dvnuser", r.DB.User)
	assert.Equal(t, "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx", cfg.API.APIKey, "original is unchanged")
}

func TestEncode(t *testing.T) {
	tests := []struct {
		format   string
		filename string
		contains []string
	}{
		{
			format:   FormatYAML,
			filename: "config.yml",
			contains: []string{"api:", "base_url: https://dataverse.example.org", "db:", "sslmode: disable"},
		},
		{
			format:   FormatHCL,
			filename: "config.hcl",
			contains: []string{"api {", `base_url`, `"https://dataverse.example.org"`, "db {", "5432"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := Encode(Example(), tt.format)
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, string(out), s)
			}

			// What is printed can be used as a settings file.
			cfg, err := Decode(tt.filename, out)
			require.NoError(t, err)
			assert.Equal(t, Example(), cfg)
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(Example(), "toml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
