package config

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitbar/internal/errors"
)

// newTestStore creates a Store rooted at a temp dir with the given repo
// config content (empty string means no config file).
func newTestStore(t *testing.T, content string) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	if content != "" {
		writeConfig(t, root, content)
	}
	s, err := NewStore(context.Background(), root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, root
}

func TestStoreConfigReturnsLoadedValues(t *testing.T) {
	s, _ := newTestStore(t, "button:\n  show_commit: true\n")
	assert.True(t, s.Config().Button.ShowCommit)
}

func TestStoreConfigReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t, "")
	s.Config().Button.ShowCommit = true
	assert.False(t, s.Config().Button.ShowCommit)
}

func TestStoreReloadNotifiesOnChange(t *testing.T) {
	s, root := newTestStore(t, "button:\n  show_commit: false\n")

	var changes []Change
	sub := s.OnDidChange(func(c Change) { changes = append(changes, c) })
	defer sub.Dispose()

	writeConfig(t, root, "button:\n  show_commit: true\n")
	s.Reload(context.Background())

	require.Len(t, changes, 1)
	assert.False(t, changes[0].Old.Button.ShowCommit)
	assert.True(t, changes[0].New.Button.ShowCommit)
	assert.True(t, s.Config().Button.ShowCommit)
}

func TestStoreReloadCoalescesIdenticalContent(t *testing.T) {
	s, root := newTestStore(t, "button:\n  show_commit: true\n")

	notified := 0
	sub := s.OnDidChange(func(Change) { notified++ })
	defer sub.Dispose()

	// Rewrite the same content; the snapshot is unchanged.
	writeConfig(t, root, "button:\n  show_commit: true\n")
	s.Reload(context.Background())

	assert.Zero(t, notified)
}

func TestStoreReloadKeepsPreviousOnFailure(t *testing.T) {
	s, root := newTestStore(t, "button:\n  show_commit: true\n")

	path := writeConfig(t, root, "button: [broken")
	s.Reload(context.Background())

	assert.True(t, s.Config().Button.ShowCommit, "previous snapshot survives a bad reload")

	require.NoError(t, os.Remove(path))
}

func TestStoreCloseWithoutWatch(t *testing.T) {
	s, _ := newTestStore(t, "")
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestStoreWatchAfterClose(t *testing.T) {
	s, _ := newTestStore(t, "")
	require.NoError(t, s.Close())

	err := s.Watch()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWatcherClosed)
}
