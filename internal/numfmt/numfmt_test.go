// internal/numfmt/numfmt_test.go
package numfmt

import (
	"math"
	"testing"
)

func TestSwapBytes(t *testing.T) {
	if got := SwapBytes(0x1234); got != 0x3412 {
		t.Fatalf("SwapBytes(0x1234)=0x%04x", got)
	}
	if got := SwapBytes(0x00FF); got != 0xFF00 {
		t.Fatalf("SwapBytes(0x00FF)=0x%04x", got)
	}
}

func TestUint32FromRegs_WordOrder(t *testing.T) {
	if got := Uint32FromRegs(0x1234, 0x5678, BigEndian); got != 0x12345678 {
		t.Fatalf("big endian: got 0x%08x", got)
	}
	if got := Uint32FromRegs(0x1234, 0x5678, LittleEndian); got != 0x56781234 {
		t.Fatalf("little endian: got 0x%08x", got)
	}
}

func TestInt32FromRegs_Negative(t *testing.T) {
	// 0xFFFFFFFF == -1 regardless of word order
	if got := Int32FromRegs(0xFFFF, 0xFFFF, BigEndian); got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
	if got := Int32FromRegs(0xFFFF, 0xFFFE, BigEndian); got != -2 {
		t.Fatalf("got %d, want -2", got)
	}
}

func TestFloat32FromRegs(t *testing.T) {
	bits := math.Float32bits(1.5)
	hi := uint16(bits >> 16)
	lo := uint16(bits)

	if got := Float32FromRegs(hi, lo, BigEndian); got != 1.5 {
		t.Fatalf("big endian: got %v", got)
	}
	if got := Float32FromRegs(lo, hi, LittleEndian); got != 1.5 {
		t.Fatalf("little endian: got %v", got)
	}
}

func TestFormatRegisters(t *testing.T) {
	if got := FormatRegisters([]uint16{1, 2, 3}); got != "[1,2,3]" {
		t.Fatalf("got %q", got)
	}
	if got := FormatRegisters(nil); got != "[]" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatRegisters32(t *testing.T) {
	regs := []uint16{0x0001, 0x0000, 0xFFFF, 0xFFFF}

	if got := FormatRegisters32(regs, BigEndian); got != "[65536,-1]" {
		t.Fatalf("big endian: got %q", got)
	}
	if got := FormatRegisters32(regs, LittleEndian); got != "[1,-1]" {
		t.Fatalf("little endian: got %q", got)
	}

	// odd count: trailing register rendered as 16-bit
	if got := FormatRegisters32([]uint16{0x0000, 0x0001, 7}, BigEndian); got != "[1,7]" {
		t.Fatalf("odd count: got %q", got)
	}
}
