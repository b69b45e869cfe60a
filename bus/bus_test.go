package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nescore/nescore/cartridge"
)

// buildROM synthesizes a minimal one-bank NROM iNES image whose reset
// vector points at start and whose PRG bytes from start on are the
// given program. The rest of the bank is filled with NOP so a test
// that free-runs past the end of its program never wanders into a
// zero byte (BRK) and traps unexpectedly.
func buildROM(start uint16, program []byte, mirrorVertical bool) []byte {
	prg := make([]byte, 16384)
	for i := range prg {
		prg[i] = 0xEA
	}
	copy(prg[start-0x8000:], program)
	prg[0x3FFC] = byte(start)
	prg[0x3FFD] = byte(start >> 8)

	flags6 := byte(0x00)
	if mirrorVertical {
		flags6 = 0x01
	}

	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, flags6, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	rom := append(header, prg...)
	rom = append(rom, make([]byte, 8192)...) // one CHR bank
	return rom
}

func newTestBus(t *testing.T, rom []byte) *Bus {
	t.Helper()
	cart, err := cartridge.Load(rom)
	require.NoError(t, err)
	return New(cart)
}

// resetAndAbsorb resets the CPU and runs off the 8 cycles of reset
// latency (modeled as a synthetic first "instruction" with cyclesRemaining
// preset rather than fetched) so callers can treat the next
// StepInstruction/Clock sequence as the program's first real opcode.
func resetAndAbsorb(b *Bus) {
	b.Reset()
	startPC := b.CPU.PC
	b.StepInstruction()
	if b.CPU.PC != startPC {
		panic("resetAndAbsorb: reset latency model changed, PC moved")
	}
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus(t, buildROM(0x8000, []byte{0xEA}, false))
	b.Write(0x0000, 0x42)
	assert.Equal(t, byte(0x42), b.Read(0x0800))
	assert.Equal(t, byte(0x42), b.Read(0x1000))
	assert.Equal(t, byte(0x42), b.Read(0x1800))
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus(t, buildROM(0x8000, []byte{0xEA}, false))
	// 0x200E/0x200F mirror PPUADDR/PPUDATA (addr & 7): write a palette
	// byte through the mirrors and read it back through the base addresses.
	b.Write(0x200E, 0x3F)
	b.Write(0x200E, 0x00)
	b.Write(0x200F, 0x2A)
	b.Write(0x2006, 0x3F)
	b.Write(0x2006, 0x00)
	assert.Equal(t, byte(0x2A), b.Read(0x2007))
	// 0x3FFE/0x3FFF are the last mirrors of the same two registers.
	b.Write(0x3FFE, 0x3F)
	b.Write(0x3FFE, 0x00)
	assert.Equal(t, byte(0x2A), b.Read(0x3FFF))
}

func TestControllerLatchesOnStrobeAndShiftsMSBFirst(t *testing.T) {
	b := newTestBus(t, buildROM(0x8000, []byte{0xEA}, false))
	b.SetController(0, 0b1010_0000) // A and Select pressed
	b.Write(0x4016, 1)               // strobe
	assert.Equal(t, byte(1), b.Read(0x4016)&0x01)
	assert.Equal(t, byte(0), b.Read(0x4016)&0x01)
	assert.Equal(t, byte(1), b.Read(0x4016)&0x01)
}

func TestClockDividesThreePPUTicksPerCPUTick(t *testing.T) {
	b := newTestBus(t, buildROM(0x8000, []byte{0xEA, 0xEA}, false))
	resetAndAbsorb(b)
	startPC := b.CPU.PC
	for i := 0; i < 3*2-1; i++ { // NOP costs 2 cycles; short of the full instruction
		b.Clock()
	}
	// The NOP was fetched and executed on its first CPU tick, so PC has
	// moved, but its second cycle has not been paid yet.
	assert.False(t, b.CPU.InstructionComplete)
	b.Clock()
	assert.True(t, b.CPU.InstructionComplete)
	assert.Equal(t, startPC+1, b.CPU.PC)
}

func TestReadBreakpointStopsBeforeFetchWithoutMutatingState(t *testing.T) {
	b := newTestBus(t, buildROM(0x8000, []byte{0xEA, 0xEA, 0xEA}, false))
	resetAndAbsorb(b)
	b.SetReadBreakpoint(0x8001)

	r := b.StepInstruction() // executes the first NOP at 0x8000
	assert.Equal(t, Continued, r.Kind)

	before := *b.CPU
	r = b.StepInstruction()
	require.Equal(t, BreakpointHit, r.Kind)
	assert.Equal(t, uint16(0x8001), r.Addr)
	assert.Equal(t, before, *b.CPU)
}

func TestWriteBreakpointReportsAfterTheWrite(t *testing.T) {
	// STA $10 at 0x8000: A9 7F (LDA #$7F), 85 10 (STA $10)
	b := newTestBus(t, buildROM(0x8000, []byte{0xA9, 0x7F, 0x85, 0x10}, false))
	resetAndAbsorb(b)
	b.SetWriteBreakpoint(0x0010)

	r := b.StepInstruction() // LDA #$7F
	assert.Equal(t, Continued, r.Kind)

	r = b.StepInstruction() // STA $10, triggers the write breakpoint
	require.Equal(t, BreakpointHit, r.Kind)
	assert.True(t, r.Write)
	assert.Equal(t, uint16(0x0010), r.Addr)
	assert.Equal(t, byte(0x7F), b.Read(0x0010))
}

func TestVBlankNMIDeliveredThroughBus(t *testing.T) {
	// An infinite self-jump keeps the CPU parked at 0x8000 instead of
	// free-running into the reset/IRQ vector bytes further up the bank.
	b := newTestBus(t, buildROM(0x8000, []byte{0x4C, 0x00, 0x80}, false))
	resetAndAbsorb(b)
	b.PPU.WriteRegister(0, 0x80) // enable nmi_on_vblank

	sp := b.CPU.S
	for i := 0; i < 341*262*3; i++ {
		b.Clock()
		if b.CPU.S == byte(sp-3) {
			break
		}
	}
	assert.Equal(t, byte(sp-3), b.CPU.S) // PC(2)+status(1) pushed by NMI servicing
}

func TestDisassembleViaBus(t *testing.T) {
	b := newTestBus(t, buildROM(0x8000, []byte{0xA9, 0x10, 0xEA}, false))
	out := b.Disassemble(0x8000, 0x8002)
	assert.Equal(t, "LDA #$10", out[0x8000])
	assert.Equal(t, "NOP", out[0x8002])
}
