package packetsource

import (
	"golang.org/x/net/bpf"

	"github.com/Hetti219/TCP-SYN-Flood-Detector/internal/xerrors"
)

// Frame layout the filter assumes: a 14-byte Ethernet header, then a
// variable-length IPv4 header whose length the LoadMemShift instruction
// computes into X.
const (
	ethHeaderLen  = 14
	ipProtoOffset = ethHeaderLen + 9  // IP header byte 9: protocol
	tcpFlagsOff   = ethHeaderLen + 13 // relative to the IP header start, via X
)

// synOnlyFilter assembles the three-predicate classic-BPF program spec §6
// describes: EtherType is IPv4, IP protocol is TCP, TCP flags has SYN set
// and ACK clear. Assembled once per Run and attached to the raw socket so
// only bare-SYN frames ever reach userspace.
func synOnlyFilter() ([]bpf.RawInstruction, error) {
	raw, err := bpf.Assemble([]bpf.Instruction{
		// 0: A = EtherType
		bpf.LoadAbsolute{Off: 12, Size: 2},
		// 1: if A != IPv4, reject (jump to instruction 9)
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0800, SkipFalse: 7},
		// 2: X = IHL*4, from the low nibble of the first IP header byte
		bpf.LoadMemShift{Off: ethHeaderLen},
		// 3: A = IP protocol byte
		bpf.LoadAbsolute{Off: ipProtoOffset, Size: 1},
		// 4: if A != TCP, reject
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: tcpProtocol, SkipFalse: 4},
		// 5: A = TCP flags byte, at ethHeaderLen + X + 13
		bpf.LoadIndirect{Off: tcpFlagsOff, Size: 1},
		// 6: if SYN bit not set, reject
		bpf.JumpIf{Cond: bpf.JumpBitSet, Val: flagSYN, SkipFalse: 2},
		// 7: if ACK bit set, reject; else fall through to accept
		bpf.JumpIf{Cond: bpf.JumpBitSet, Val: flagACK, SkipTrue: 1},
		// 8: accept — return the whole frame
		bpf.RetConstant{Val: 0xffff},
		// 9: reject — return zero bytes
		bpf.RetConstant{Val: 0},
	})
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.KindInternal, "assemble bpf filter")
	}
	return raw, nil
}

// htons converts a host-order uint16 to network byte order, as raw AF_PACKET
// sockets require for the protocol argument.
func htons(v uint16) uint16 {
	return v<<8 | v>>8
}
