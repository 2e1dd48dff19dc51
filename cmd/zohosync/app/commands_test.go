package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Tree(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{
		{"auth", "status"},
		{"auth", "url"},
		{"auth", "exchange"},
		{"auth", "refresh"},
		{"auth", "test"},
		{"auth", "disconnect"},
		{"sync", "customers"},
		{"sync", "items"},
		{"push", "invoice"},
		{"push", "customer"},
		{"push", "item"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestSyncOptions_Request(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req, err := (&syncOptions{page: 1, onlyNew: true}).request()
		require.NoError(t, err)
		assert.Equal(t, 1, req.Page)
		assert.True(t, req.OnlyNew)
		assert.Nil(t, req.SyncFromDate)
	})

	t.Run("parses from date", func(t *testing.T) {
		req, err := (&syncOptions{page: 2, perPage: 100, from: "2026-01-15"}).request()
		require.NoError(t, err)
		require.NotNil(t, req.SyncFromDate)
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *req.SyncFromDate)
		assert.False(t, req.OnlyNew)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := (&syncOptions{perPage: 500}).request()
		assert.Error(t, err)

		_, err = (&syncOptions{from: "15/01/2026"}).request()
		assert.Error(t, err)
	})
}

func TestPushInvoice_RejectsBadID(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"push", "invoice", "not-a-uuid"})
	root.SetOut(new(nopWriter))
	root.SetErr(new(nopWriter))

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sales invoice id")
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
