package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/xerrors"
)

// Loader produces a validated Snapshot. The supervisor's reload intent
// depends only on this interface, never on a concrete file format — actual
// config-file parsing (HCL, YAML, whatever the operator-facing CLI chooses)
// is outside the core's scope.
type Loader interface {
	Load() (Snapshot, error)
}

// FileLoader reads a minimal `key = value` file. It exists so the
// supervisor and its tests have something concrete to reload against; a
// production front end can swap in a richer Loader without touching the
// core.
type FileLoader struct {
	Path string
}

// Load reads and parses the file at l.Path into a validated Snapshot.
func (l FileLoader) Load() (Snapshot, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return Snapshot{}, xerrors.Wrap(err, xerrors.KindNotFound, "open config file")
	}
	defer f.Close()

	snap := Default()
	values := make(map[string]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		values[key] = val
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, xerrors.Wrap(err, xerrors.KindInternal, "read config file")
	}

	if v, ok := values["syn_threshold"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Snapshot{}, xerrors.Wrapf(err, xerrors.KindValidation, "parse syn_threshold")
		}
		snap.SynThreshold = uint32(n)
	}
	if v, ok := values["window_ms"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Snapshot{}, xerrors.Wrapf(err, xerrors.KindValidation, "parse window_ms")
		}
		snap.WindowMS = uint32(n)
	}
	if v, ok := values["block_duration_s"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Snapshot{}, xerrors.Wrapf(err, xerrors.KindValidation, "parse block_duration_s")
		}
		snap.BlockDurationS = uint32(n)
	}
	if v, ok := values["max_tracked_ips"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Snapshot{}, xerrors.Wrapf(err, xerrors.KindValidation, "parse max_tracked_ips")
		}
		snap.MaxTrackedIPs = uint32(n)
	}
	if v, ok := values["hash_buckets"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Snapshot{}, xerrors.Wrapf(err, xerrors.KindValidation, "parse hash_buckets")
		}
		snap.HashBuckets = uint32(n)
	}
	if v, ok := values["sweep_interval_s"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Snapshot{}, xerrors.Wrapf(err, xerrors.KindValidation, "parse sweep_interval_s")
		}
		snap.SweepIntervalS = uint32(n)
	}
	if v, ok := values["address_set_name"]; ok {
		snap.AddressSetName = v
	}
	if v, ok := values["whitelist_path"]; ok {
		snap.WhitelistPath = v
	}

	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
