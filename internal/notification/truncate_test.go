// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package notification

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore answers queries from fixed rows and updates from a list of counts.
type fakeStore struct {
	connectErr error
	closeErr   error
	rows       [][]string
	queryErr   error
	counts     []int64
	updateErr  map[int]error

	connects, closes int
	queries, updates []string
}

func (s *fakeStore) Connect(context.Context) error {
	s.connects++
	return s.connectErr
}

func (s *fakeStore) Close(context.Context) error {
	s.closes++
	return s.closeErr
}

func (s *fakeStore) Query(_ context.Context, q string, _ bool) ([][]string, error) {
	s.queries = append(s.queries, q)
	return s.rows, s.queryErr
}

func (s *fakeStore) Update(_ context.Context, stmt string) (int64, error) {
	i := len(s.updates)
	s.updates = append(s.updates, stmt)

	if err := s.updateErr[i]; err != nil {
		return 0, err
	}

	return s.counts[i], nil
}

type recordingHandler struct {
	mu   *sync.Mutex
	msgs *[]string
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	*h.msgs = append(*h.msgs, r.Level.String()+" "+r.Message)

	return nil
}

func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h recordingHandler) WithGroup(string) slog.Handler { return h }

func intPtr(i int) *int { return &i }

func TestValidateKeep(t *testing.T) {
	require.NoError(t, ValidateKeep(0))

	err := ValidateKeep(-1)
	require.ErrorIs(t, err, ErrNegativeKeep)
	assert.Equal(t, "Number of records to keep must be a positive integer, now it was -1.", err.Error())
}

func TestRun_SeveralUsers(t *testing.T) {
	var (
		mu   sync.Mutex
		msgs []string
	)

	ctx := ctxlog.New(context.Background(), slog.New(recordingHandler{mu: &mu, msgs: &msgs}))

	store := &fakeStore{
		rows:   [][]string{{"1", "user1-dontcare"}, {"2", "user2-dontcare"}, {"3", "user3-dontcare"}},
		counts: []int64{3, 2, 1},
	}

	var out bytes.Buffer

	err := Run(ctx, store, Options{AllUsers: true, Keep: 1, Delay: time.Millisecond}, nil, runbatch.Options{Output: &out})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"1: OK. Deleted 3 record(s) for user with id 1",
		"2: OK. Deleted 2 record(s) for user with id 2",
		"3: OK. Deleted 1 record(s) for user with id 3",
		"",
	}, "\n"), out.String())

	assert.Equal(t, []string{
		"INFO Starting batch processing of 3 items",
		"INFO Processing item 1 of 3: 1",
		"INFO Deleting notifications for user with id 1",
		"DEBUG Sleeping for 1 ms",
		"INFO Processing item 2 of 3: 2",
		"INFO Deleting notifications for user with id 2",
		"DEBUG Sleeping for 1 ms",
		"INFO Processing item 3 of 3: 3",
		"INFO Deleting notifications for user with id 3",
		"INFO Finished batch processing of 3 items",
	}, msgs)

	assert.Equal(t, 1, store.connects)
	assert.Equal(t, 1, store.closes)
	assert.Equal(t, []string{
		"SELECT user_id FROM usernotification GROUP BY user_id HAVING COUNT(user_id) > 1;",
	}, store.queries)
	require.Len(t, store.updates, 3)
	assert.Equal(t,
		"DELETE FROM usernotification WHERE user_id = '2' AND id NOT IN "+
			"(SELECT id FROM usernotification WHERE user_id = '2' ORDER BY senddate DESC LIMIT 1);",
		store.updates[1])
}

func TestRun_SingleUser(t *testing.T) {
	store := &fakeStore{counts: []int64{7}}

	collector := runbatch.NewCollector[Truncation, string]()
	err := Run(context.Background(), store, Options{UserID: intPtr(13), Keep: 5}, collector, runbatch.Options{})
	require.NoError(t, err)

	assert.Empty(t, store.queries)

	outcomes := collector.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, "13", outcomes[0].Label)
	assert.Equal(t, Truncation{UserID: 13, Keep: 5}, outcomes[0].Item)
	assert.Equal(t, "Deleted 7 record(s) for user with id 13", outcomes[0].Result)
}

func TestRun_FailedUserDoesNotStopOthers(t *testing.T) {
	store := &fakeStore{
		rows:      [][]string{{"1"}, {"2"}},
		counts:    []int64{0, 4},
		updateErr: map[int]error{0: errors.New("deadlock detected")},
	}

	var out bytes.Buffer

	err := Run(context.Background(), store, Options{AllUsers: true}, nil, runbatch.Options{Output: &out})
	require.NoError(t, err)

	assert.Equal(t,
		"1: FAILED: Exception type = Exception, message = Error deleting notifications for user with id 1\n"+
			"2: OK. Deleted 4 record(s) for user with id 2\n",
		out.String())
}

func TestTruncate_ErrorWrapsDatabaseError(t *testing.T) {
	dbErr := errors.New("deadlock detected")
	store := &fakeStore{updateErr: map[int]error{0: dbErr}}

	_, err := Truncate(store)(context.Background(), Truncation{UserID: 7, Keep: 2})

	var te *TruncateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 7, te.UserID)
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, "Error deleting notifications for user with id 7", err.Error())
	assert.Equal(t, "Exception", runbatch.CategoryOf(err))
}

func TestRun_Errors(t *testing.T) {
	t.Run("negative keep does not connect", func(t *testing.T) {
		store := &fakeStore{}

		err := Run(context.Background(), store, Options{UserID: intPtr(13), Keep: -1}, nil, runbatch.Options{})
		require.ErrorIs(t, err, ErrNegativeKeep)
		assert.Zero(t, store.connects)
	})

	t.Run("connect error", func(t *testing.T) {
		store := &fakeStore{connectErr: errors.New("test database fails to connect")}

		err := Run(context.Background(), store, Options{UserID: intPtr(13), Keep: 1}, nil, runbatch.Options{})
		require.EqualError(t, err, "test database fails to connect")
		assert.Zero(t, store.closes)
	})

	t.Run("listing users fails and still closes", func(t *testing.T) {
		store := &fakeStore{queryErr: errors.New("permission denied")}

		err := Run(context.Background(), store, Options{AllUsers: true, Keep: 1}, nil, runbatch.Options{})
		require.ErrorIs(t, err, ErrUserIDs)
		assert.ErrorContains(t, err, "permission denied")
		assert.Equal(t, 1, store.closes)
	})

	t.Run("no selection", func(t *testing.T) {
		store := &fakeStore{}

		err := Run(context.Background(), store, Options{Keep: 1}, nil, runbatch.Options{})
		require.ErrorIs(t, err, ErrNoUsers)
		assert.Equal(t, 1, store.closes)
	})

	t.Run("close error is returned", func(t *testing.T) {
		store := &fakeStore{closeErr: errors.New("broken pipe"), counts: []int64{1}}

		err := Run(context.Background(), store, Options{UserID: intPtr(1)}, nil, runbatch.Options{Output: &bytes.Buffer{}})
		require.ErrorContains(t, err, "broken pipe")
	})
}

func TestUsersOverLimit_BadID(t *testing.T) {
	store := &fakeStore{rows: [][]string{{"1"}, {"abc"}}}

	_, err := UsersOverLimit(context.Background(), store, 0)
	require.ErrorIs(t, err, ErrUserIDs)
}
