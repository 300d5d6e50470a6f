// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
)

// DefaultDelay is the pause between two users. The database copes with a short one.
const DefaultDelay = 10 * time.Millisecond

const (
	usersOverLimitSQL = "SELECT user_id FROM usernotification GROUP BY user_id HAVING COUNT(user_id) > %d;"
	truncateSQL       = "DELETE FROM usernotification WHERE user_id = '%d' AND id NOT IN " +
		"(SELECT id FROM usernotification WHERE user_id = '%d' ORDER BY senddate DESC LIMIT %d);"
)

var (
	// ErrNegativeKeep is returned when the number of records to keep is negative.
	ErrNegativeKeep = errors.New("Number of records to keep must be a positive integer") //nolint:staticcheck
	// ErrNoUsers is returned when neither a user nor all users are selected.
	ErrNoUsers = errors.New("either a user id or all users must be selected")
	// ErrUserIDs is returned when the users to truncate cannot be listed.
	ErrUserIDs = errors.New("Error getting user ids") //nolint:staticcheck
)

// Store is the database the notifications live in.
type Store interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	Query(ctx context.Context, query string, withColumnNames bool) ([][]string, error)
	Update(ctx context.Context, stmt string) (int64, error)
}

// Truncation is the work item for one user.
type Truncation struct {
	UserID int
	Keep   int
}

// TruncateError is the failure to truncate the notifications of one user.
// Its message names the user only; the database error is logged and available through Unwrap.
type TruncateError struct {
	UserID int
	Err    error
}

// Error implements the error interface.
func (e *TruncateError) Error() string {
	return fmt.Sprintf("Error deleting notifications for user with id %d", e.UserID)
}

// Unwrap returns the database error.
func (e *TruncateError) Unwrap() error {
	return e.Err
}

// Category implements runbatch.Categorizer.
func (e *TruncateError) Category() string {
	return "Exception"
}

// Options selects the users to truncate and how many notifications to keep.
type Options struct {
	// UserID is the database id of a single user. It is ignored when AllUsers is set.
	UserID   *int
	AllUsers bool
	Keep     int
	Delay    time.Duration
}

// ValidateKeep checks the number of records to keep.
func ValidateKeep(keep int) error {
	if keep < 0 {
		return fmt.Errorf("%w, now it was %d.", ErrNegativeKeep, keep) //nolint:staticcheck
	}

	return nil
}

// UsersOverLimit returns the ids of the users with more than keep notifications.
func UsersOverLimit(ctx context.Context, store Store, keep int) ([]int, error) {
	rows, err := store.Query(ctx, fmt.Sprintf(usersOverLimitSQL, keep), false)
	if err != nil {
		return nil, errors.Join(ErrUserIDs, err)
	}

	ids := make([]int, 0, len(rows))

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, errors.Join(ErrUserIDs, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// Items returns the truncations selected by opts, labeled with the user id.
func Items(ctx context.Context, store Store, opts Options) (*runbatch.Items[Truncation], error) {
	var ids []int

	switch {
	case opts.AllUsers:
		var err error
		if ids, err = UsersOverLimit(ctx, store, opts.Keep); err != nil {
			return nil, err
		}
	case opts.UserID != nil:
		ids = []int{*opts.UserID}
	default:
		return nil, ErrNoUsers
	}

	items := make([]runbatch.Item[Truncation], len(ids))
	for i, id := range ids {
		items[i] = runbatch.Item[Truncation]{
			Label: strconv.Itoa(id),
			Value: Truncation{UserID: id, Keep: opts.Keep},
		}
	}

	return runbatch.FromSlice(items), nil
}

// Truncate returns the action deleting all but the newest notifications of a user.
func Truncate(store Store) runbatch.Action[Truncation, string] {
	return func(ctx context.Context, t Truncation) (string, error) {
		ctxlog.Info(ctx, fmt.Sprintf("Deleting notifications for user with id %d", t.UserID))

		n, err := store.Update(ctx, fmt.Sprintf(truncateSQL, t.UserID, t.UserID, t.Keep))
		if err != nil {
			ctxlog.Error(ctx, "deleting notifications failed", "user", t.UserID, "error", err)
			return "", &TruncateError{UserID: t.UserID, Err: err}
		}

		return fmt.Sprintf("Deleted %d record(s) for user with id %d", n, t.UserID), nil
	}
}

// Run connects to the store, truncates the notifications of the selected users and disconnects.
// The failure of one user does not stop the others.
func Run(ctx context.Context, store Store, opts Options, reporter runbatch.Reporter[Truncation, string], runOpts runbatch.Options) (err error) {
	if err := ValidateKeep(opts.Keep); err != nil {
		return err
	}

	if err := store.Connect(ctx); err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, store.Close(ctx))
	}()

	items, err := Items(ctx, store, opts)
	if err != nil {
		return err
	}

	runOpts.Delay = opts.Delay

	p, err := runbatch.NewProcessor(items, Truncate(store), reporter, runOpts)
	if err != nil {
		return err
	}

	return p.Process(ctx)
}
