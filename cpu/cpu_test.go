package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBus is a trivial 64KiB RAM bus used to exercise the CPU in
// isolation, the way bdwalton-gintendo's mos6502 tests drive the CPU
// against a bare byte slice rather than a full console.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read(addr uint16) byte       { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v byte)   { b.mem[addr] = v }
func (b *flatBus) load(addr uint16, data ...byte) {
	copy(b.mem[addr:], data)
}

func runUntilComplete(c *CPU, b *flatBus) int {
	ticks := 0
	for {
		c.Clock(b)
		ticks++
		if c.InstructionComplete {
			return ticks
		}
	}
}

func newTestCPU(b *flatBus, pc uint16) *CPU {
	b.load(0xFFFC, byte(pc), byte(pc>>8))
	c := New()
	c.Reset(b)
	for !c.InstructionComplete {
		c.Clock(b)
	}
	return c
}

func TestResetVector(t *testing.T) {
	b := &flatBus{}
	b.load(0xFFFC, 0x00, 0x80)
	c := New()
	c.Reset(b)
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, byte(0xFD), c.S)
	assert.True(t, c.P.I)
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	b := &flatBus{}
	c := newTestCPU(b, 0x8000)
	b.load(0x8000, 0xA9, 0x00) // LDA #$00
	ticks := runUntilComplete(c, b)
	assert.Equal(t, 2, ticks)
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.P.Z)
	assert.False(t, c.P.N)
}

func TestSTAStoresWithoutReadingDestination(t *testing.T) {
	b := &flatBus{}
	c := newTestCPU(b, 0x8000)
	c.A = 0x42
	b.load(0x8000, 0x85, 0x10) // STA $10
	runUntilComplete(c, b)
	assert.Equal(t, byte(0x42), b.mem[0x10])
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	b := &flatBus{}
	c := newTestCPU(b, 0x8000)
	c.A = 0x50
	c.P.C = false
	b.load(0x8000, 0x69, 0x50) // ADC #$50 -> 0xA0, overflow (pos+pos=neg)
	runUntilComplete(c, b)
	assert.Equal(t, byte(0xA0), c.A)
	assert.True(t, c.P.V)
	assert.False(t, c.P.C)
	assert.True(t, c.P.N)
}

func TestSBCBorrow(t *testing.T) {
	b := &flatBus{}
	c := newTestCPU(b, 0x8000)
	c.A = 0x00
	c.P.C = true // no borrow going in
	b.load(0x8000, 0xE9, 0x01) // SBC #$01 -> 0xFF, carry clear (borrow occurred)
	runUntilComplete(c, b)
	assert.Equal(t, byte(0xFF), c.A)
	assert.False(t, c.P.C)
	assert.True(t, c.P.N)
}

func TestCMPSetsCarryOnGreaterOrEqual(t *testing.T) {
	b := &flatBus{}
	c := newTestCPU(b, 0x8000)
	c.A = 0x10
	b.load(0x8000, 0xC9, 0x10) // CMP #$10
	runUntilComplete(c, b)
	assert.True(t, c.P.C)
	assert.True(t, c.P.Z)
}

func TestBranchTakenAddsCycleAndCrossingAddsAnother(t *testing.T) {
	b := &flatBus{}
	c := newTestCPU(b, 0x80FD)
	c.P.Z = true
	b.load(0x80FD, 0xF0, 0x04) // BEQ +4, target 0x8103 (crosses page from 0x80FF base)
	ticks := runUntilComplete(c, b)
	assert.Equal(t, uint16(0x8103), c.PC)
	assert.Equal(t, 4, ticks) // 2 base + 1 taken + 1 page-crossed
}

func TestJMPIndirectPageBoundaryBug(t *testing.T) {
	b := &flatBus{}
	c := newTestCPU(b, 0x8000)
	b.load(0x10FF, 0x34)
	b.load(0x1000, 0x12)
	b.load(0x1100, 0xFF) // would be wrongly read as the high byte without the bug
	b.load(0x8000, 0x6C, 0xFF, 0x10) // JMP ($10FF)
	runUntilComplete(c, b)
	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestBRKPushesStatusWithBreakAndUnusedSet(t *testing.T) {
	b := &flatBus{}
	b.load(0xFFFE, 0x00, 0x90) // IRQ/BRK vector -> 0x9000
	c := newTestCPU(b, 0x8000)
	c.S = 0xFF
	b.load(0x8000, 0x00, 0x00) // BRK
	runUntilComplete(c, b)
	require.Equal(t, uint16(0x9000), c.PC)
	pushedP := b.mem[0x0100+int(c.S)+1]
	var f Flags
	f.Decode(pushedP)
	assert.True(t, f.B)
	assert.True(t, f.U)
	assert.True(t, c.P.I)
}

func TestDisassembleDoesNotTouchCPUState(t *testing.T) {
	b := &flatBus{}
	b.load(0x8000, 0xA9, 0x10, 0xD0, 0xFE) // LDA #$10 ; BNE -2
	c := newTestCPU(b, 0x8000)
	before := *c
	out := Disassemble(b, 0x8000, 0x8003)
	assert.Equal(t, before, *c)
	assert.Equal(t, "LDA #$10", out[0x8000])
	assert.Equal(t, "BNE $FE [$8002]", out[0x8002])
}
