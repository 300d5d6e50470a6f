// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
)

// DefaultDir is the directory below the user configuration directory holding the settings file.
const DefaultDir = "dataverse-cli"

// DefaultFileName is the name of the default settings file.
const DefaultFileName = "config.yml"

var (
	// ErrDecodeConfig is returned when the settings file cannot be decoded.
	ErrDecodeConfig = errors.New("failed to decode config file")
	// ErrUnsupportedFormat is returned when the settings file extension is not known.
	ErrUnsupportedFormat = errors.New("unsupported config file format, use .yml, .yaml or .hcl")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// DefaultPath returns the path of the default settings file,
// or an empty string when the user configuration directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, DefaultDir, DefaultFileName)
}

// Load reads and decodes the settings file at source.
// A source that exists on the local filesystem is read directly, anything else is fetched with go-getter.
// When optional is set a missing local file yields an empty Config.
func Load(ctx context.Context, source string, optional bool) (*Config, error) {
	if source == "" {
		return &Config{}, nil
	}

	fs := FsFactory()

	ok, err := afero.Exists(fs, source)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	var data []byte

	switch {
	case ok:
		ctxlog.Debug(ctx, "reading config file", "path", source)

		if data, err = afero.ReadFile(fs, source); err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}
	case optional && isLocalPath(source):
		ctxlog.Debug(ctx, "config file not found, using defaults", "path", source)
		return &Config{}, nil
	default:
		ctxlog.Debug(ctx, "fetching config file", "source", source)

		if data, err = getURL(ctx, source); err != nil {
			return nil, err
		}
	}

	return Decode(fileName(source), data)
}

// Decode decodes data according to the extension of filename.
func Decode(filename string, data []byte) (*Config, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".yml", ".yaml":
		return decodeYAML(data)
	case ".hcl":
		return decodeHCL(filename, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func decodeYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, errors.Join(ErrDecodeConfig, err)
	}

	return cfg, nil
}

// hclFile is the top level of an HCL settings file.
type hclFile struct {
	API *API `hcl:"api,block"`
	DB  *DB  `hcl:"db,block"`
}

func decodeHCL(filename string, data []byte) (*Config, error) {
	f, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Join(ErrDecodeConfig, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &raw); diags.HasErrors() {
		return nil, errors.Join(ErrDecodeConfig, diags)
	}

	cfg := &Config{}
	if raw.API != nil {
		cfg.API = *raw.API
	}

	if raw.DB != nil {
		cfg.DB = *raw.DB
	}

	return cfg, nil
}

// evalContext exposes the environment as the env object.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// isLocalPath reports whether source carries no go-getter forcing or scheme.
func isLocalPath(source string) bool {
	return !strings.Contains(source, "::") && !strings.Contains(source, "://")
}

// fileName returns the file name of a path or go-getter source, without any query.
func fileName(source string) string {
	if i := strings.Index(source, goGetterRefSeparator); i >= 0 {
		source = source[:i]
	}

	return path.Base(filepath.ToSlash(source))
}
