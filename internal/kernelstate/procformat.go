package kernelstate

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

// tcpSynRecv is the /proc/net/tcp state value the kernel reserves for a
// socket that has received a SYN and sent a SYN-ACK but not yet the final
// ACK — the "half-open" state spec §4.4 defines.
const tcpSynRecv = "03"

// countHalfOpen scans a /proc/net/tcp-formatted stream and counts rows in
// the half-open state, optionally filtered to a single peer address. It is
// platform-independent (takes an io.Reader) so it can be unit tested
// without a real /proc filesystem. Malformed rows are skipped silently, as
// required by spec §4.4; an empty input yields a count of 0.
func countHalfOpen(r io.Reader, filter *addr.Addr) uint32 {
	var count uint32
	scanner := bufio.NewScanner(r)
	firstLine := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if firstLine {
			firstLine = false
			continue // header row
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue // malformed row, skip silently
		}

		state := strings.ToUpper(fields[3])
		if state != tcpSynRecv {
			continue
		}

		remAddrPort := fields[2]
		idx := strings.IndexByte(remAddrPort, ':')
		if idx < 0 {
			continue
		}
		peer, err := canonicalFromProcHex(remAddrPort[:idx])
		if err != nil {
			continue // malformed row, skip silently
		}

		if filter != nil && peer != *filter {
			continue
		}
		count++
	}
	return count
}

// canonicalFromProcHex translates the 8-hex-digit address field
// /proc/net/tcp prints into addr.Addr's canonical (network byte order)
// domain. The kernel formats the in-kernel 32-bit word with a plain %X,
// which on a little-endian host prints the address's bytes in the reverse
// of wire order — this is the single translation point both the
// total-count and filter-by-address paths share, per the fix spec §9
// calls for.
func canonicalFromProcHex(hex string) (addr.Addr, error) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, err
	}
	n := uint32(v)
	return addr.FromBytes([4]byte{
		byte(n),
		byte(n >> 8),
		byte(n >> 16),
		byte(n >> 24),
	}), nil
}
