// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/dvcli/internal/database"
	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
)

var (
	// ErrNoBaseURL is returned when an API command runs without an API base URL.
	ErrNoBaseURL = errors.New("api.base_url is not set")
	// ErrNegativeTimeout is returned when the HTTP timeout is negative.
	ErrNegativeTimeout = errors.New("api.http_timeout_seconds must not be negative")
	// ErrNoDBHost is returned when the database command runs without a database host.
	ErrNoDBHost = errors.New("db.host is not set")
	// ErrNoDBName is returned when the database command runs without a database name.
	ErrNoDBName = errors.New("db.database is not set")
	// ErrInvalidDBPort is returned when the database port is out of range.
	ErrInvalidDBPort = errors.New("db.port must be between 1 and 65535")
	// ErrInvalidAPIConfig is returned when the API settings are incomplete or invalid.
	ErrInvalidAPIConfig = errors.New("invalid api configuration")
	// ErrInvalidDBConfig is returned when the database settings are incomplete or invalid.
	ErrInvalidDBConfig = errors.New("invalid db configuration")
)

// API holds the settings of the Dataverse API client.
type API struct {
	BaseURL            string `yaml:"base_url" hcl:"base_url,optional"`
	APIKey             string `yaml:"api_key" hcl:"api_key,optional"`
	UnblockKey         string `yaml:"unblock_key" hcl:"unblock_key,optional"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds" hcl:"http_timeout_seconds,optional"`
}

// DB holds the connection settings of the Dataverse database.
type DB struct {
	Host     string `yaml:"host" hcl:"host,optional"`
	Port     int    `yaml:"port" hcl:"port,optional"`
	Database string `yaml:"database" hcl:"database,optional"`
	User     string `yaml:"user" hcl:"user,optional"`
	Password string `yaml:"password" hcl:"password,optional"`
	SSLMode  string `yaml:"sslmode" hcl:"sslmode,optional"`
}

// Config is the content of the settings file.
type Config struct {
	API API `yaml:"api"`
	DB  DB  `yaml:"db"`
}

// Dataverse validates the API settings and returns the client configuration.
func (c *Config) Dataverse() (dataverse.Config, error) {
	var err error

	if c.API.BaseURL == "" {
		err = multierror.Append(err, ErrNoBaseURL)
	}

	if c.API.HTTPTimeoutSeconds < 0 {
		err = multierror.Append(err, ErrNegativeTimeout)
	}

	if err != nil {
		return dataverse.Config{}, errors.Join(ErrInvalidAPIConfig, err)
	}

	return dataverse.Config{
		BaseURL:    c.API.BaseURL,
		APIKey:     c.API.APIKey,
		UnblockKey: c.API.UnblockKey,
		Timeout:    time.Duration(c.API.HTTPTimeoutSeconds) * time.Second,
	}, nil
}

// Database validates the database settings and returns the connection configuration.
// A zero port means the PostgreSQL default.
func (c *Config) Database() (database.Config, error) {
	var err error

	if c.DB.Host == "" {
		err = multierror.Append(err, ErrNoDBHost)
	}

	if c.DB.Database == "" {
		err = multierror.Append(err, ErrNoDBName)
	}

	if c.DB.Port < 0 || c.DB.Port > 65535 {
		err = multierror.Append(err, ErrInvalidDBPort)
	}

	if err != nil {
		return database.Config{}, errors.Join(ErrInvalidDBConfig, err)
	}

	port := c.DB.Port
	if port == 0 {
		port = database.DefaultPort
	}

	return database.Config{
		Host:     c.DB.Host,
		Port:     port,
		Database: c.DB.Database,
		User:     c.DB.User,
		Password: c.DB.Password,
		SSLMode:  c.DB.SSLMode,
	}, nil
}
