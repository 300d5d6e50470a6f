// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// DefaultPort is the PostgreSQL port used when the configuration does not name one.
const DefaultPort = 5432

const driverName = "pgx"

var (
	// ErrNoHost is returned when the configuration does not name a database host.
	ErrNoHost = errors.New("database host is not configured")
	// ErrNoDatabase is returned when the configuration does not name a database.
	ErrNoDatabase = errors.New("database name is not configured")
	// ErrNotConnected is returned when a statement is run before Connect.
	ErrNotConnected = errors.New("not connected to the database")
	// ErrConnect is returned when the connection cannot be opened or verified.
	ErrConnect = errors.New("cannot connect to the database")
)

// Config holds the connection details of the database.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// Validate checks the configuration names a host and a database.
func (c Config) Validate() error {
	var err error

	if c.Host == "" {
		err = multierror.Append(err, ErrNoHost)
	}

	if c.Database == "" {
		err = multierror.Append(err, ErrNoDatabase)
	}

	return err
}

// DSN returns the connection URL for the configuration.
func (c Config) DSN() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:   "/" + c.Database,
	}

	switch {
	case c.User != "" && c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	case c.User != "":
		u.User = url.User(c.User)
	}

	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}

	return u.String()
}

// Opener opens a handle for the given connection URL.
type Opener func(dsn string) (*sql.DB, error)

// Open is the Opener used by Connect.
var Open Opener = func(dsn string) (*sql.DB, error) {
	return sql.Open(driverName, dsn)
}

// Database is a lazily connected database handle.
// It is safe to call Close more than once.
type Database struct {
	cfg Config
	mu  sync.Mutex
	db  *sql.DB
}

// New returns a Database for the configuration. It does not connect.
func New(cfg Config) *Database {
	return &Database{cfg: cfg}
}

// Connect opens and verifies the connection. It does nothing if already connected.
func (d *Database) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		return nil
	}

	if err := d.cfg.Validate(); err != nil {
		return err
	}

	ctxlog.Debug(ctx, "Starting connecting to database", "host", d.cfg.Host, "database", d.cfg.Database)

	db, err := Open(d.cfg.DSN())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	d.db = db

	return nil
}

// Close closes the connection, if any.
func (d *Database) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	ctxlog.Debug(ctx, "Close connection to database")

	err := d.db.Close()
	d.db = nil

	if err != nil {
		ctxlog.Error(ctx, "Database error", "error", err)
		return fmt.Errorf("closing database: %w", err)
	}

	return nil
}

func (d *Database) handle() (*sql.DB, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil, ErrNotConnected
	}

	return d.db, nil
}

// Query runs a query and returns its rows as strings. NULL values become empty strings.
// When withColumnNames is set the first row holds the column names.
func (d *Database) Query(ctx context.Context, query string, withColumnNames bool) ([][]string, error) {
	db, err := d.handle()
	if err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "Querying database", "sql", query)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result [][]string
	if withColumnNames {
		result = append(result, cols)
	}

	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))

		for i := range vals {
			dest[i] = &vals[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = v.String
		}

		result = append(result, row)
	}

	return result, rows.Err()
}

// Update runs a statement and returns the number of rows it affected.
func (d *Database) Update(ctx context.Context, stmt string) (int64, error) {
	db, err := d.handle()
	if err != nil {
		return 0, err
	}

	ctxlog.Debug(ctx, "Updating database", "sql", stmt)

	res, err := db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
