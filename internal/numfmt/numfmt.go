// internal/numfmt/numfmt.go
package numfmt

import (
	"fmt"
	"math"
	"strings"
)

// WordOrder selects how two consecutive 16-bit registers are combined
// into one 32-bit value.
type WordOrder int

const (
	// LittleEndian: the first register holds the low word.
	LittleEndian WordOrder = iota
	// BigEndian: the first register holds the high word.
	BigEndian
)

func (o WordOrder) String() string {
	if o == BigEndian {
		return "(big endian)"
	}
	return "(little endian)"
}

// SwapBytes exchanges the two bytes of a register.
func SwapBytes(v uint16) uint16 {
	return v<<8 | v>>8
}

// Uint32FromRegs combines a register pair into a uint32.
func Uint32FromRegs(first, second uint16, order WordOrder) uint32 {
	if order == BigEndian {
		return uint32(first)<<16 | uint32(second)
	}
	return uint32(second)<<16 | uint32(first)
}

// Int32FromRegs combines a register pair into an int32.
func Int32FromRegs(first, second uint16, order WordOrder) int32 {
	return int32(Uint32FromRegs(first, second, order))
}

// Float32FromRegs reinterprets a register pair as an IEEE-754 float.
func Float32FromRegs(first, second uint16, order WordOrder) float32 {
	return math.Float32frombits(Uint32FromRegs(first, second, order))
}

// FormatRegisters renders a register slice as a bracketed list of
// unsigned 16-bit values, e.g. "[1,2,3]".
func FormatRegisters(regs []uint16) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range regs {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", r)
	}
	b.WriteByte(']')
	return b.String()
}

// FormatRegisters32 renders a register slice as 32-bit integers built
// from consecutive pairs in the given word order. A trailing unpaired
// register is rendered as a bare 16-bit value.
func FormatRegisters32(regs []uint16, order WordOrder) string {
	var b strings.Builder
	b.WriteByte('[')
	n := 0
	for i := 0; i+1 < len(regs); i += 2 {
		if n > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", Int32FromRegs(regs[i], regs[i+1], order))
		n++
	}
	if len(regs)%2 != 0 {
		if n > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", regs[len(regs)-1])
	}
	b.WriteByte(']')
	return b.String()
}
