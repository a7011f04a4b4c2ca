package packetsource

import (
	"testing"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/addr"
)

// ipv4Frame builds a minimal 20-byte IPv4 header (no options) followed by a
// 20-byte TCP header (no options) carrying the given protocol and flags.
func ipv4Frame(src [4]byte, protocol byte, tcpFlags byte) []byte {
	ip := make([]byte, 20)
	ip[0] = 0x45 // version 4, IHL 5 (20 bytes)
	ip[9] = protocol
	copy(ip[12:16], src[:])   // source address
	copy(ip[16:20], []byte{10, 0, 0, 1}) // destination address

	tcp := make([]byte, 20)
	tcp[13] = tcpFlags

	return append(ip, tcp...)
}

func TestParseIPv4SYNAccepts(t *testing.T) {
	frame := ipv4Frame([4]byte{203, 0, 113, 50}, tcpProtocol, flagSYN)
	a, ok := parseIPv4SYN(frame)
	if !ok {
		t.Fatal("expected frame to be recognized as a bare SYN")
	}
	want, _ := addr.Parse("203.0.113.50")
	if a != want {
		t.Errorf("expected %s, got %s", want, a)
	}
}

func TestParseIPv4SYNRejectsSynAck(t *testing.T) {
	frame := ipv4Frame([4]byte{203, 0, 113, 50}, tcpProtocol, flagSYN|flagACK)
	if _, ok := parseIPv4SYN(frame); ok {
		t.Error("expected SYN+ACK frame to be rejected")
	}
}

func TestParseIPv4SYNRejectsNonTCP(t *testing.T) {
	frame := ipv4Frame([4]byte{203, 0, 113, 50}, 17 /* UDP */, flagSYN)
	if _, ok := parseIPv4SYN(frame); ok {
		t.Error("expected non-TCP frame to be rejected")
	}
}

func TestParseIPv4SYNRejectsNonIPv4Version(t *testing.T) {
	frame := ipv4Frame([4]byte{203, 0, 113, 50}, tcpProtocol, flagSYN)
	frame[0] = 0x60 // version 6
	if _, ok := parseIPv4SYN(frame); ok {
		t.Error("expected non-IPv4 version nibble to be rejected")
	}
}

func TestParseIPv4SYNRejectsShortFrame(t *testing.T) {
	if _, ok := parseIPv4SYN([]byte{0x45, 0x00, 0x00}); ok {
		t.Error("expected truncated frame to be rejected")
	}
}

func TestParseIPv4SYNRejectsMalformedIHL(t *testing.T) {
	frame := ipv4Frame([4]byte{203, 0, 113, 50}, tcpProtocol, flagSYN)
	frame[0] = 0x43 // IHL=3 words = 12 bytes, below the 20-byte minimum
	if _, ok := parseIPv4SYN(frame); ok {
		t.Error("expected undersized IHL to be rejected")
	}
}

func TestParseEthernetIPv4SYNAccepts(t *testing.T) {
	eth := make([]byte, 14)
	eth[12], eth[13] = 0x08, 0x00 // EtherType IPv4
	frame := append(eth, ipv4Frame([4]byte{198, 51, 100, 7}, tcpProtocol, flagSYN)...)

	a, ok := parseEthernetIPv4SYN(frame)
	if !ok {
		t.Fatal("expected ethernet-wrapped SYN frame to be recognized")
	}
	want, _ := addr.Parse("198.51.100.7")
	if a != want {
		t.Errorf("expected %s, got %s", want, a)
	}
}

func TestParseEthernetIPv4SYNRejectsOtherEtherType(t *testing.T) {
	eth := make([]byte, 14)
	eth[12], eth[13] = 0x86, 0xdd // IPv6 EtherType
	frame := append(eth, ipv4Frame([4]byte{198, 51, 100, 7}, tcpProtocol, flagSYN)...)
	if _, ok := parseEthernetIPv4SYN(frame); ok {
		t.Error("expected non-IPv4 ethertype to be rejected")
	}
}

func TestParseEthernetIPv4SYNRejectsShortFrame(t *testing.T) {
	if _, ok := parseEthernetIPv4SYN([]byte{1, 2, 3}); ok {
		t.Error("expected frame shorter than an ethernet header to be rejected")
	}
}
