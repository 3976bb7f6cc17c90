package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

func TestStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	store := NewStore(dir)

	cfg := models.NewHTTPConfig(&models.HTTPConfig{
		Enabled:      true,
		ListenPorts:  []int{8080},
		VirtualHosts: []models.HTTPVirtualHost{{ID: "v1", ServerName: "example.com", DocumentRoot: "/srv"}},
	})
	appliedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	require.NoError(t, store.Save(cfg, "apply-1", "abc", appliedAt))

	rec, loaded, err := store.Load(models.KindHTTP)
	require.NoError(t, err)
	assert.Equal(t, "apply-1", rec.ApplyID)
	assert.Equal(t, "abc", rec.Checksum)
	assert.True(t, appliedAt.Equal(rec.AppliedAt))
	assert.Equal(t, cfg.HTTP, loaded.HTTP)

	info, err := os.Stat(filepath.Join(dir, "http.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	_, err = os.Stat(filepath.Join(dir, "http.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LoadMissing(t *testing.T) {
	_, _, err := NewStore(t.TempDir()).Load(models.KindDNS)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dhcp.json"), []byte("{not json"), 0600))

	_, _, err := NewStore(dir).Load(models.KindDHCP)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}
