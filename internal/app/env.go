// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/dvcli/internal/config"
	"github.com/matt-FFFFFF/dvcli/internal/database"
	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
	"github.com/matt-FFFFFF/dvcli/internal/params"
	"github.com/matt-FFFFFF/dvcli/internal/target"
	"github.com/spf13/afero"
)

// ErrNoEnv is returned when a command runs without an Env in its context.
var ErrNoEnv = errors.New("no application environment in context")

type envKey struct{}

// Env is the dependency container of a command invocation.
// The zero value reads the default settings file and uses the process streams.
type Env struct {
	ConfigPath     string // Settings file, any go-getter source
	ConfigOptional bool   // A missing local settings file means empty settings
	APIURL         string // Overrides api.base_url when set
	APIKey         string // Overrides api.api_key when set
	TUI            bool   // Show the interactive progress view

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Fs     afero.Fs

	HTTPClient *http.Client        // Replaces the client built from the settings when set
	TUIOptions []tea.ProgramOption // Options of the interactive view program

	once   sync.Once
	cfg    *config.Config
	cfgErr error
}

// WithEnv returns a copy of ctx carrying env.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// FromContext returns the Env stored in ctx.
func FromContext(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, ErrNoEnv
	}

	return env, nil
}

// Config loads the settings file once and returns it.
func (e *Env) Config(ctx context.Context) (*config.Config, error) {
	e.once.Do(func() {
		e.cfg, e.cfgErr = config.Load(ctx, e.ConfigPath, e.ConfigOptional)
	})

	return e.cfg, e.cfgErr
}

// Client returns a Dataverse client built from the settings and the flag overrides.
func (e *Env) Client(ctx context.Context) (*dataverse.Client, error) {
	cfg, err := e.Config(ctx)
	if err != nil {
		return nil, err
	}

	api := *cfg

	if e.APIURL != "" {
		api.API.BaseURL = e.APIURL
	}

	if e.APIKey != "" {
		api.API.APIKey = e.APIKey
	}

	dvCfg, err := api.Dataverse()
	if err != nil {
		return nil, err
	}

	var opts []dataverse.Option
	if e.HTTPClient != nil {
		opts = append(opts, dataverse.WithHTTPClient(e.HTTPClient))
	}

	return dataverse.NewClient(dvCfg, opts...)
}

// Database returns an unconnected database built from the settings.
func (e *Env) Database(ctx context.Context) (*database.Database, error) {
	cfg, err := e.Config(ctx)
	if err != nil {
		return nil, err
	}

	dbCfg, err := cfg.Database()
	if err != nil {
		return nil, err
	}

	return database.New(dbCfg), nil
}

// Resolver returns a target resolver on the Env filesystem and standard input.
func (e *Env) Resolver() *target.Resolver {
	return target.NewResolver(e.Fs, e.Stdin)
}

// Params returns a parameter file reader on the Env filesystem.
func (e *Env) Params() *params.Reader {
	return params.NewReader(e.Fs)
}

// ReadFile reads a whole file from the Env filesystem.
func (e *Env) ReadFile(path string) ([]byte, error) {
	fs := e.Fs
	if fs == nil {
		fs = target.FsFactory()
	}

	return afero.ReadFile(fs, path)
}

// Output returns standard output, or the process standard output when unset.
func (e *Env) Output() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}

	return e.Stdout
}

// ErrOutput returns standard error, or the process standard error when unset.
func (e *Env) ErrOutput() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}

	return e.Stderr
}
