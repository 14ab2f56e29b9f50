package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/logger"
)

func TestNewStorage(t *testing.T) {
	s := NewStorage("/tmp/test")
	assert.NotNil(t, s)
	assert.Equal(t, "/tmp/test", s.BaseDir())
}

func TestPutGet(t *testing.T) {
	s := NewStorageWithLogger(t.TempDir(), logger.NewMockLogger())

	in := models.Session{Username: "Admin", Role: "Administrator", LoginTime: "2026-10-17T09:00:00Z"}
	require.NoError(t, s.Put("rasa_auth_user", in))

	var out models.Session
	require.NoError(t, s.Get("rasa_auth_user", &out))
	assert.Equal(t, in, out)

	data, err := os.ReadFile(filepath.Join(s.BaseDir(), "state", "rasa_auth_user.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"loginTime": "2026-10-17T09:00:00Z"`)
}

func TestPutOverwrites(t *testing.T) {
	s := NewStorageWithLogger(t.TempDir(), logger.NewMockLogger())

	require.NoError(t, s.Put("prefs", map[string]string{"theme": "dark"}))
	require.NoError(t, s.Put("prefs", map[string]string{"theme": "light"}))

	var out map[string]string
	require.NoError(t, s.Get("prefs", &out))
	assert.Equal(t, "light", out["theme"])

	entries, err := os.ReadDir(filepath.Join(s.BaseDir(), "state"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should not linger")
}

func TestGetMissing(t *testing.T) {
	s := NewStorageWithLogger(t.TempDir(), logger.NewMockLogger())

	var out models.Session
	err := s.Get("rasa_auth_user", &out)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := NewStorageWithLogger(dir, logger.NewMockLogger())
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "state"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state", "bad.json"), []byte("{not json"), 0o600))

	var out map[string]any
	err := s.Get("bad", &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := NewStorageWithLogger(t.TempDir(), logger.NewMockLogger())

	require.NoError(t, s.Put("k", 1))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"), "deleting twice is fine")

	var out int
	require.ErrorIs(t, s.Get("k", &out), ErrNotFound)
}

func TestKeys(t *testing.T) {
	s := NewStorageWithLogger(t.TempDir(), logger.NewMockLogger())

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, s.Put("b", 1))
	require.NoError(t, s.Put("a", 2))

	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestInvalidKeys(t *testing.T) {
	s := NewStorageWithLogger(t.TempDir(), logger.NewMockLogger())

	for _, key := range []string{"../escape", "a/b", ""} {
		assert.Error(t, s.Put(key, 1), key)
		assert.Error(t, s.Get(key, new(int)), key)
		assert.Error(t, s.Delete(key), key)
	}
}
