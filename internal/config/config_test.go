package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsZeroThreshold(t *testing.T) {
	s := Default()
	s.SynThreshold = 0
	assert.Error(t, s.Validate())
}

func TestValidateRejectsSynThresholdAboveUpperBound(t *testing.T) {
	s := Default()
	s.SynThreshold = maxSynThreshold + 1
	assert.Error(t, s.Validate())
}

func TestValidateRejectsNonPowerOfTwoBuckets(t *testing.T) {
	s := Default()
	s.HashBuckets = 100
	assert.Error(t, s.Validate())
}

func TestFileLoaderParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synguard.conf")
	contents := "# comment\nsyn_threshold = 50\nwindow_ms=2000\n\naddress_set_name = custom-set\nwhitelist_path = /etc/synguard/whitelist.txt\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	loader := FileLoader{Path: path}
	snap, err := loader.Load()
	require.NoError(t, err)

	assert.EqualValues(t, 50, snap.SynThreshold)
	assert.EqualValues(t, 2000, snap.WindowMS)
	assert.Equal(t, "custom-set", snap.AddressSetName)
	assert.Equal(t, "/etc/synguard/whitelist.txt", snap.WhitelistPath)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().MaxTrackedIPs, snap.MaxTrackedIPs)
}

func TestFileLoaderMissingFile(t *testing.T) {
	loader := FileLoader{Path: "/nonexistent/path/synguard.conf"}
	_, err := loader.Load()
	assert.Error(t, err)
}
