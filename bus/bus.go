// Package bus implements the NES system bus: address decoding across
// RAM, the PPU register file, controller ports and the cartridge, the
// 1-CPU-tick-per-3-PPU-ticks clock division, NMI delivery, and an
// explicit breakpoint-aware step result instead of unwinding the
// stack on a debug trap.
package bus

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/nescore/nescore/cartridge"
	"github.com/nescore/nescore/cpu"
	"github.com/nescore/nescore/ppu"
)

// StepKind distinguishes a normal tick from a breakpoint trap.
type StepKind int

const (
	Continued StepKind = iota
	BreakpointHit
)

// StepResult is returned from Clock (and accumulated by
// StepInstruction/StepFrame) so a debug host can react to a
// breakpoint without the engine unwinding the stack to report it.
type StepResult struct {
	Kind  StepKind
	Addr  uint16
	Write bool
}

// Bus owns the CPU, PPU and Cartridge and arbitrates all memory
// traffic between them, per spec's "Bus owns everything, mediates the
// circular PPU-NMI/CPU dependency" design note.
type Bus struct {
	ram [2048]byte

	CPU *cpu.CPU
	PPU *ppu.PPU
	cart *cartridge.Cartridge

	controllers [2]controller

	systemTick uint64

	readBreakpoints  map[uint16]struct{}
	writeBreakpoints map[uint16]struct{}
	suppressBreaks   bool

	lastBreak *StepResult
}

// New constructs a Bus from an already-parsed Cartridge.
func New(cart *cartridge.Cartridge) *Bus {
	b := &Bus{
		cart:             cart,
		readBreakpoints:  make(map[uint16]struct{}),
		writeBreakpoints: make(map[uint16]struct{}),
	}
	b.PPU = ppu.New(cart)
	b.CPU = cpu.New()
	return b
}

// SetReadBreakpoint / SetWriteBreakpoint / ClearBreakpoints manage the
// debug breakpoint sets described in spec §4.1/§9.
func (b *Bus) SetReadBreakpoint(addr uint16)  { b.readBreakpoints[addr] = struct{}{} }
func (b *Bus) SetWriteBreakpoint(addr uint16) { b.writeBreakpoints[addr] = struct{}{} }
func (b *Bus) ClearBreakpoints() {
	b.readBreakpoints = make(map[uint16]struct{})
	b.writeBreakpoints = make(map[uint16]struct{})
}

// Read implements cpu.Bus, dispatching by address range per spec §4.1.
func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr <= 0x1FFF:
		return b.ram[addr&0x07FF]
	case addr >= 0x2000 && addr <= 0x3FFF:
		return b.PPU.ReadRegister(addr & 0x0007)
	case addr == 0x4016 || addr == 0x4017:
		return b.controllers[addr-0x4016].read()
	case addr >= 0x4020:
		if v, ok := b.cart.CPURead(addr); ok {
			return v
		}
		glog.V(2).Infof("bus: out-of-range cpu read at %#04x", addr)
		return 0
	default:
		glog.V(2).Infof("bus: out-of-range cpu read at %#04x", addr)
		return 0
	}
}

// Write implements cpu.Bus.
func (b *Bus) Write(addr uint16, data byte) {
	if !b.suppressBreaks {
		if _, ok := b.writeBreakpoints[addr]; ok {
			b.lastBreak = &StepResult{Kind: BreakpointHit, Addr: addr, Write: true}
		}
	}
	switch {
	case addr <= 0x1FFF:
		b.ram[addr&0x07FF] = data
	case addr >= 0x2000 && addr <= 0x3FFF:
		b.PPU.WriteRegister(addr&0x0007, data)
	case addr == 0x4016 || addr == 0x4017:
		b.controllers[0].strobe()
		b.controllers[1].strobe()
	case addr >= 0x4020:
		if !b.cart.CPUWrite(addr, data) {
			glog.V(2).Infof("bus: out-of-range cpu write at %#04x", addr)
		}
	default:
		glog.V(2).Infof("bus: out-of-range cpu write at %#04x", addr)
	}
}

// SetController latches a live button byte for port 0 or 1; it is
// delivered into the shift register on the next 0x4016/0x4017 strobe
// write, per spec's controller semantics.
func (b *Bus) SetController(port int, buttons byte) {
	b.controllers[port].setButtons(buttons)
}

// Reset invokes CPU reset. PPU counters are left undisturbed, matching
// documented NES behavior. Breakpoints are suppressed for the reset
// vector fetch so constructing/restarting a session never self-traps.
func (b *Bus) Reset() {
	b.suppressBreaks = true
	b.CPU.Reset(b)
	b.suppressBreaks = false
}

// Clock advances one master tick: the PPU always ticks; the CPU ticks
// every third master tick; an NMI raised by the PPU this tick is
// delivered to the CPU once the CPU tick (if any) has completed. This
// ordering is fixed and observable per spec §5.
func (b *Bus) Clock() StepResult {
	if b.lastBreak != nil {
		lb := *b.lastBreak
		b.lastBreak = nil
		return lb
	}

	nmiRequested := b.PPU.Tick()

	if b.systemTick%3 == 0 {
		if !b.suppressBreaks && b.CPU.AtInstructionBoundary() {
			if _, ok := b.readBreakpoints[b.CPU.PC]; ok {
				b.systemTick++
				return StepResult{Kind: BreakpointHit, Addr: b.CPU.PC, Write: false}
			}
		}
		b.CPU.Clock(b)
	}

	if nmiRequested {
		b.suppressBreaks = true
		b.CPU.NMI(b)
		b.suppressBreaks = false
	}

	b.systemTick++

	if b.lastBreak != nil {
		lb := *b.lastBreak
		b.lastBreak = nil
		return lb
	}
	return StepResult{Kind: Continued}
}

// StepInstruction ticks until the CPU retires one instruction, or
// until a breakpoint interrupts it first.
func (b *Bus) StepInstruction() StepResult {
	for {
		// InstructionComplete keeps its value across the master ticks on
		// which the CPU does not run, so only a CPU tick can end the step.
		cpuTick := b.systemTick%3 == 0
		r := b.Clock()
		if r.Kind == BreakpointHit {
			return r
		}
		if cpuTick && b.CPU.InstructionComplete {
			return r
		}
	}
}

// StepFrame ticks until the PPU signals a completed frame, or until a
// breakpoint interrupts it first.
func (b *Bus) StepFrame() StepResult {
	for {
		r := b.Clock()
		if r.Kind == BreakpointHit {
			return r
		}
		if b.PPU.ConsumeFrameComplete() {
			return r
		}
	}
}

// Disassemble decodes [start, end] using the bus's own memory view,
// for the Host API's disassemble() entry point.
func (b *Bus) Disassemble(start, end uint16) map[uint16]string {
	return cpu.Disassemble(b, start, end)
}

func (b *Bus) String() string {
	return fmt.Sprintf("bus(tick=%d pc=%#04x)", b.systemTick, b.CPU.PC)
}
