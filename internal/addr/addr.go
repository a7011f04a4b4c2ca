// Package addr defines the canonical IPv4 address representation shared by
// the whitelist, tracker, kernel-state probe and block-set driver. Keeping
// one conversion point means the byte-order pitfalls spec.md §9 calls out
// (the kernel TCP inspection surface's peer-address encoding) only have to
// be handled once, here.
package addr

import (
	"fmt"
	"net"
)

// Addr is a canonical 32-bit IPv4 address, network byte order abstracted
// away: callers only ever see and compare the big-endian-as-uint32 value.
type Addr uint32

// FromNetIP converts a net.IP (4-byte or 16-byte v4-in-v6 form) to an Addr.
// Returns false if ip is not a valid IPv4 address.
func FromNetIP(ip net.IP) (Addr, bool) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, false
	}
	return Addr(uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])), true
}

// FromBytes builds an Addr from four bytes in network (big-endian) order.
func FromBytes(b [4]byte) Addr {
	return Addr(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// Parse parses a dotted-quad string into an Addr.
func Parse(s string) (Addr, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, fmt.Errorf("invalid IPv4 address: %q", s)
	}
	a, ok := FromNetIP(ip)
	if !ok {
		return 0, fmt.Errorf("not an IPv4 address: %q", s)
	}
	return a, nil
}

// Bytes returns the address as four bytes in network (big-endian) order.
func (a Addr) Bytes() [4]byte {
	return [4]byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)}
}

// String renders the address in dotted-quad form.
func (a Addr) String() string {
	b := a.Bytes()
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}

// NetIP returns the address as a net.IP.
func (a Addr) NetIP() net.IP {
	b := a.Bytes()
	return net.IPv4(b[0], b[1], b[2], b[3])
}
