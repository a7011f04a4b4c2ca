package packetsource

import (
	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

const (
	tcpProtocol = 6
	flagSYN     = 0x02
	flagACK     = 0x10
)

// parseIPv4SYN inspects a raw network-layer (IP) frame and reports the
// source address only if the frame is an IPv4/TCP bare SYN (SYN set, ACK
// clear). Any other shape — malformed header, non-IPv4, non-TCP, or a
// non-bare-SYN TCP frame that leaked through an upstream filter — is
// silently skipped per spec §4.8.
func parseIPv4SYN(data []byte) (addr.Addr, bool) {
	if len(data) < 20 {
		return 0, false
	}
	version := data[0] >> 4
	if version != 4 {
		return 0, false
	}
	ihl := int(data[0]&0x0f) * 4
	if ihl < 20 || len(data) < ihl+20 {
		return 0, false
	}
	if data[9] != tcpProtocol {
		return 0, false
	}

	tcp := data[ihl:]
	flags := tcp[13]
	if flags&flagSYN == 0 || flags&flagACK != 0 {
		return 0, false
	}

	var src [4]byte
	copy(src[:], data[12:16])
	return addr.FromBytes(src), true
}

// parseEthernetIPv4SYN strips a 14-byte Ethernet header (the fallback path
// reads full link-layer frames) before delegating to parseIPv4SYN.
func parseEthernetIPv4SYN(frame []byte) (addr.Addr, bool) {
	const ethHeaderLen = 14
	const etherTypeIPv4 = 0x0800
	if len(frame) < ethHeaderLen {
		return 0, false
	}
	etherType := uint16(frame[12])<<8 | uint16(frame[13])
	if etherType != etherTypeIPv4 {
		return 0, false
	}
	return parseIPv4SYN(frame[ethHeaderLen:])
}
