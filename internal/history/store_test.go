// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/goalcast/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), types.HistoryConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var clasico = types.PredictionRequest{
	TeamAID: "86", TeamAName: "Real Madrid CF",
	TeamBID: "81", TeamBName: "FC Barcelona",
	GoalThreshold: "2.5", NeutralVenue: true,
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(context.Background(), types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	cfg := types.HistoryConfig{Dir: t.TempDir()}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	_, err = s.Record(ctx, EntryFor(clasico, "2-1"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, types.HistoryConfig{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported history driver")

	_, err = Open(ctx, types.HistoryConfig{Driver: DriverPostgres})
	assert.ErrorContains(t, err, "history.dsn is required")
}

func TestRecord_AndRecent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	for i, outcome := range []string{"1-0", "2-2", "0-1"} {
		e := EntryFor(clasico, outcome)
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		id, err := s.Record(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0-1", entries[0].Outcome)
	assert.Equal(t, "2-2", entries[1].Outcome)
	assert.True(t, entries[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, clasico, entries[0].Request())

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecord_DefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	before := time.Now().Add(-time.Second)
	_, err := s.Record(ctx, EntryFor(clasico, ""))
	require.NoError(t, err)

	e, ok, err := s.Last(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.CreatedAt.After(before))
}

func TestRecord_RejectsMissingTeam(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Record(context.Background(), Entry{TeamAID: "86"})
	assert.Error(t, err)
}

func TestLast_Empty(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Last(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLast_ReturnsNewest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Record(ctx, EntryFor(clasico, "first"))
	require.NoError(t, err)
	second := EntryFor(types.PredictionRequest{TeamAID: "354", TeamBID: "86"}, "second")
	_, err = s.Record(ctx, second)
	require.NoError(t, err)

	e, ok, err := s.Last(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", e.Outcome)
	assert.Equal(t, "354", e.TeamAID)
	assert.False(t, e.NeutralVenue)
}

func TestExportYAML(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, outcome := range []string{"older", "newer"} {
		_, err := s.Record(ctx, EntryFor(clasico, outcome))
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &buf))

	var got []Entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "older", got[0].Outcome)
	assert.Equal(t, "newer", got[1].Outcome)
	assert.Equal(t, "Real Madrid CF", got[0].TeamAName)
	assert.Contains(t, buf.String(), "is_neutral_venue: true")
}

func TestExportYAML_Empty(t *testing.T) {
	s := openTestStore(t)
	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "2-1", Outcome(types.PredictionResult{MostLikelyScore: "2-1"}, nil))
	assert.Equal(t, "Arsenal FC vs Liverpool FC", Outcome(types.PredictionResult{Summary: "\n Arsenal FC vs Liverpool FC\nmore"}, nil))
	assert.Equal(t, "error: boom", Outcome(types.PredictionResult{MostLikelyScore: "1-0"}, errors.New("boom")))
	assert.Equal(t, "", Outcome(types.PredictionResult{}, nil))
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}
