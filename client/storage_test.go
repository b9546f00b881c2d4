package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vintegcorp/vintegcorp/client"
)

func TestStorage(t *testing.T) {
	tiers := map[string]func(t *testing.T) client.Storage{
		"memory": func(*testing.T) client.Storage { return client.NewMemoryStorage() },
		"file": func(t *testing.T) client.Storage {
			return client.NewFileStorage(filepath.Join(t.TempDir(), "session", "store.json"))
		},
	}
	for name, open := range tiers {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			_, ok, err := s.Get(client.KeyToken)
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, s.Set(client.KeyToken, "abc"))
			v, ok, err := s.Get(client.KeyToken)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "abc", v)

			require.NoError(t, s.Delete(client.KeyToken))
			require.NoError(t, s.Delete(client.KeyToken))
			_, ok, err = s.Get(client.KeyToken)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestFileStoragePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, client.NewFileStorage(path).Set(client.KeyUser, `{"id":"1"}`))

	v, ok, err := client.NewFileStorage(path).Get(client.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"1"}`, v)
}

func TestFileStorageCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := client.NewFileStorage(path)

	_, _, err := s.Get(client.KeyUser)
	require.Error(t, err)

	require.NoError(t, s.Delete(client.KeyUser))
	_, ok, err := s.Get(client.KeyUser)
	require.NoError(t, err)
	require.False(t, ok)
}
