package seeder

import (
	"context"
	"errors"
	"testing"

	"careerpath/internal/config"
	"careerpath/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubDB struct{ database.DB }

type recordingSeeder struct {
	name string
	err  error
	runs *[]string
}

func (s recordingSeeder) Name() string { return s.name }

func (s recordingSeeder) Run(ctx context.Context, db database.DB) error {
	*s.runs = append(*s.runs, s.name)
	return s.err
}

func TestRunner_RunsInOrderAndLogs(t *testing.T) {
	var runs []string
	core, logs := observer.New(zapcore.InfoLevel)

	r := Runner{
		Seeders: []Seeder{recordingSeeder{name: "a", runs: &runs}, nil, recordingSeeder{name: "b", runs: &runs}},
		Logger:  zap.New(core),
	}
	require.NoError(t, r.Run(context.Background(), stubDB{}))
	assert.Equal(t, []string{"a", "b"}, runs)
	assert.Equal(t, 2, logs.FilterMessage("seeder finished").Len())
}

func TestRunner_StopsOnError(t *testing.T) {
	var runs []string
	boom := errors.New("boom")
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "a", err: boom, runs: &runs},
		recordingSeeder{name: "b", runs: &runs},
	}}

	err := r.Run(context.Background(), stubDB{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "seed a")
	assert.Equal(t, []string{"a"}, runs)
}

func TestRunner_NilDB(t *testing.T) {
	assert.Error(t, Runner{}.Run(context.Background(), nil))
}

func TestAdminSeeder_SkipsWithoutCredentials(t *testing.T) {
	// No credentials means no database access at all.
	assert.NoError(t, AdminSeeder{Email: "admin@example.com"}.Run(context.Background(), stubDB{}))
	assert.NoError(t, AdminSeeder{Password: "secret"}.Run(context.Background(), stubDB{}))
}

func TestDefaults(t *testing.T) {
	seeders := Defaults(config.SeedConfig{AdminEmail: "a@b.c", AdminPassword: "pw"})
	names := make([]string, 0, len(seeders))
	for _, s := range seeders {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"assessments", "universities", "companies", "admin"}, names)
}
