package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/coursesearch/internal/config"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
)

func entries(t *testing.T) []course.Entry {
	t.Helper()
	e, err := course.New("Holocaust History", "The Holocaust.", "HI", []string{"HUB Historical Consciousness"}, "", nil)
	require.NoError(t, err)
	return []course.Entry{e}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		arg string
		want config.CatalogConfig
	}{
		{"file:data/courses.yaml", config.CatalogConfig{Driver: "file", Path: "data/courses.yaml"}},
		{"sqlite:catalog.db", config.CatalogConfig{Driver: "sqlite", Path: "catalog.db"}},
		{"postgres:postgres://u@h/db", config.CatalogConfig{Driver: "postgres", DSN: "postgres://u@h/db"}},
		{"redis:a:6379,b:6379", config.CatalogConfig{Driver: "redis", Addrs: []string{"a:6379", "b:6379"}}},
		{"badger:memory", config.CatalogConfig{Driver: "badger", InMemory: true}},
		{"BADGER:/var/lib/courses", config.CatalogConfig{Driver: "badger", Path: "/var/lib/courses"}},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseTarget(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Driver, got.Driver)
			assert.Equal(t, tt.want.Path, got.Path)
			assert.Equal(t, tt.want.DSN, got.DSN)
			assert.Equal(t, tt.want.Addrs, got.Addrs)
			assert.Equal(t, tt.want.InMemory, got.InMemory)
			assert.Equal(t, "courses", got.Table)
		})
	}
}

func TestParseTarget_Invalid(t *testing.T) {
	for _, arg := range []string{"", "file", "file:", "mongo:localhost"} {
		_, err := ParseTarget(arg)
		assert.Error(t, err, arg)
	}
}

func TestOpen_FileAndSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, arg := range []string{
		"file:" + filepath.Join(dir, "courses.json"),
		"sqlite:" + filepath.Join(dir, "courses.db"),
		"badger:memory",
	} {
		t.Run(arg, func(t *testing.T) {
			cfg, err := ParseTarget(arg)
			require.NoError(t, err)

			s, err := Open(ctx, cfg, nil)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Replace(ctx, entries(t)))
			require.NoError(t, s.Ping(ctx))

			records, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "Holocaust History", records[0].Title)
			assert.Equal(t, cfg.Driver, s.Driver())
			assert.NotEmpty(t, s.Target())
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.CatalogConfig{Driver: "mongo"}, nil)
	require.Error(t, err)
}

func TestVersion_ByDriver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	file, err := Open(ctx, config.CatalogConfig{Driver: config.DriverFile, Path: filepath.Join(dir, "c.yaml")}, nil)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, file.Replace(ctx, entries(t)))
	v, err := file.Version(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, v)

	sqlCfg, err := ParseTarget("sqlite:" + filepath.Join(dir, "c.db"))
	require.NoError(t, err)
	sqlite, err := Open(ctx, sqlCfg, nil)
	require.NoError(t, err)
	defer sqlite.Close()
	v, err = sqlite.Version(ctx)
	require.NoError(t, err)
	assert.Empty(t, v, "sqlite has no change marker")
}
