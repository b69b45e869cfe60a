// Package emulator is the Host API facade: it loads an iNES image,
// owns the wired-together Bus, and exposes the small surface a host
// (a GUI, a test harness, a scripted trace runner) needs to drive the
// system and read back its framebuffer, grounded on the shape of the
// teacher's console facade.
package emulator

import (
	"fmt"
	"image"

	"github.com/golang/glog"

	"github.com/nescore/nescore/bus"
	"github.com/nescore/nescore/cartridge"
)

// Emulator wraps a Bus and is the entry point hosts construct and
// drive; nothing outside this package should need to reach into bus,
// cpu, ppu or cartridge types directly.
type Emulator struct {
	bus *bus.Bus
}

// NewEmulator parses romBytes as an iNES image and returns an Emulator
// reset to its power-up state.
func NewEmulator(romBytes []byte) (*Emulator, error) {
	cart, err := cartridge.Load(romBytes)
	if err != nil {
		return nil, fmt.Errorf("emulator: %w", err)
	}
	glog.V(1).Infof("emulator: loaded cartridge, mirroring=%s", cart.Mirroring())

	e := &Emulator{bus: bus.New(cart)}
	e.bus.Reset()
	return e, nil
}

// Reset performs a CPU reset (registers reinitialized, PC loaded from
// the reset vector) without re-parsing the cartridge. RAM and PPU state
// are left as they are.
func (e *Emulator) Reset() {
	e.bus.Reset()
}

// Clock advances the system by one master tick (one PPU dot, with the
// CPU ticking every third call). Most hosts want StepInstruction or
// StepFrame instead; Clock is exposed for single-stepping debuggers.
func (e *Emulator) Clock() bus.StepResult {
	return e.bus.Clock()
}

// StepInstruction runs until the CPU retires one instruction or a
// breakpoint interrupts it first.
func (e *Emulator) StepInstruction() bus.StepResult {
	return e.bus.StepInstruction()
}

// StepFrame runs until a full frame has been produced or a breakpoint
// interrupts it first.
func (e *Emulator) StepFrame() bus.StepResult {
	return e.bus.StepFrame()
}

// SetController updates the live button state for controller port 0
// or 1, read back on the next strobe.
func (e *Emulator) SetController(port int, buttons byte) {
	e.bus.SetController(port, buttons)
}

// Framebuffer returns the current 256x240 render target. The
// underlying image is reused across frames; callers that need to
// retain a snapshot across a StepFrame call should copy it.
func (e *Emulator) Framebuffer() *image.RGBA {
	return e.bus.PPU.Framebuffer()
}

// Disassemble decodes [start, end] against the live bus, for debug
// tooling and trace output.
func (e *Emulator) Disassemble(start, end uint16) map[uint16]string {
	return e.bus.Disassemble(start, end)
}

// SetReadBreakpoint / SetWriteBreakpoint / ClearBreakpoints expose the
// Bus's debug breakpoint sets to hosts building a stepping debugger.
func (e *Emulator) SetReadBreakpoint(addr uint16)  { e.bus.SetReadBreakpoint(addr) }
func (e *Emulator) SetWriteBreakpoint(addr uint16) { e.bus.SetWriteBreakpoint(addr) }
func (e *Emulator) ClearBreakpoints()              { e.bus.ClearBreakpoints() }
