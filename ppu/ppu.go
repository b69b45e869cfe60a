// Package ppu implements the NES Picture Processing Unit: its
// scanline/cycle timing state machine, CPU-visible register file,
// nametable/palette memory with mirroring, and a background-only
// framebuffer renderer.
package ppu

import (
	"image"

	"github.com/nescore/nescore/cartridge"
)

// Cartridge is the narrow view the PPU needs of the inserted
// cartridge: CHR access and mirroring mode. Satisfied directly by
// *cartridge.Cartridge.
type Cartridge interface {
	PPURead(addr uint16) (byte, bool)
	PPUWrite(addr uint16, data byte) bool
	Mirroring() cartridge.Mirroring
}

const (
	statusVBlank         byte = 0x80
	statusSpriteZeroHit  byte = 0x40
	statusSpriteOverflow byte = 0x20
)

// PPU is the 2C02-equivalent rendering unit. Unlike the CPU, it holds
// its cartridge reference across ticks (the PPU permanently borrows
// the cartridge for CHR/mirroring lookups, per spec's resource model).
type PPU struct {
	cart Cartridge

	nameTables [2][1024]byte
	paletteRAM [32]byte

	ctrl, mask, status byte
	oamAddr            byte

	v, t       uint16 // 15-bit VRAM/temp address latches
	fineX      byte
	writeLatch bool // w: next write is the low byte/byte

	readBuffer byte

	scanline int // -1..260
	cycle    int // 0..340

	frameComplete bool
	framebuffer   *image.RGBA
}

// New constructs a PPU wired to the given cartridge.
func New(cart Cartridge) *PPU {
	return &PPU{
		cart:        cart,
		scanline:    -1,
		framebuffer: image.NewRGBA(image.Rect(0, 0, 256, 240)),
	}
}

func (p *PPU) nmiOnVBlank() bool { return p.ctrl&0x80 != 0 }

func (p *PPU) vramAddrIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) backgroundPatternBase() uint16 {
	if p.ctrl&0x10 != 0 {
		return 0x1000
	}
	return 0
}
func (p *PPU) nametableSelect() uint16 { return uint16(p.ctrl & 0x03) }

func (p *PPU) setVBlank(set bool) {
	if set {
		p.status |= statusVBlank
	} else {
		p.status &^= statusVBlank
	}
}

// ReadRegister implements the CPU-visible PPUCTRL..PPUDATA register
// file at addr&7 (addr already reduced to 0..7 by the caller).
func (p *PPU) ReadRegister(reg uint16) byte {
	switch reg {
	case 2: // PPUSTATUS
		result := (p.status & 0xE0) | (p.readBuffer & 0x1F)
		p.setVBlank(false)
		p.writeLatch = false
		return result
	case 4: // OAMDATA
		return 0
	case 7: // PPUDATA
		data := p.readBuffer
		p.readBuffer = p.ppuRead(p.v)
		if p.v >= 0x3F00 {
			data = p.readBuffer
		}
		p.v += p.vramAddrIncrement()
		return data
	default:
		return 0
	}
}

// WriteRegister implements CPU writes to PPUCTRL..PPUDATA.
func (p *PPU) WriteRegister(reg uint16, data byte) {
	switch reg {
	case 0: // PPUCTRL
		p.ctrl = data
	case 1: // PPUMASK
		p.mask = data
	case 3: // OAMADDR
		p.oamAddr = data
	case 4: // OAMDATA
		// Not consumed by this core's rendering subset (no OAM table).
	case 5: // PPUSCROLL
		if !p.writeLatch {
			p.t = (p.t & 0xFFE0) | uint16(data>>3)
			p.fineX = data & 0x07
			p.writeLatch = true
		} else {
			p.t = (p.t & 0x8FFF) | (uint16(data&0x07) << 12)
			p.t = (p.t & 0xFC1F) | (uint16(data&0xF8) << 2)
			p.writeLatch = false
		}
	case 6: // PPUADDR
		if !p.writeLatch {
			p.t = (p.t & 0x00FF) | (uint16(data&0x3F) << 8)
			p.writeLatch = true
		} else {
			p.t = (p.t & 0xFF00) | uint16(data)
			p.v = p.t
			p.writeLatch = false
		}
	case 7: // PPUDATA
		p.ppuWrite(p.v, data)
		p.v += p.vramAddrIncrement()
	}
}

// ppuRead/ppuWrite implement the 14-bit PPU bus: pattern tables
// delegate to the cartridge, nametables resolve through mirroring,
// palette RAM aliases its mirror holes.
func (p *PPU) ppuRead(addr uint16) byte {
	addr &= 0x3FFF
	if v, ok := p.cart.PPURead(addr); ok {
		return v
	}
	switch {
	case addr >= 0x2000 && addr <= 0x3EFF:
		return p.readNametable(addr)
	case addr >= 0x3F00 && addr <= 0x3FFF:
		return p.paletteRAM[paletteIndex(addr)]
	default:
		return 0
	}
}

func (p *PPU) ppuWrite(addr uint16, data byte) {
	addr &= 0x3FFF
	if p.cart.PPUWrite(addr, data) {
		return
	}
	switch {
	case addr >= 0x2000 && addr <= 0x3EFF:
		p.writeNametable(addr, data)
	case addr >= 0x3F00 && addr <= 0x3FFF:
		p.paletteRAM[paletteIndex(addr)] = data
	}
}

func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	switch idx {
	case 0x10:
		idx = 0x00
	case 0x14:
		idx = 0x04
	case 0x18:
		idx = 0x08
	case 0x1C:
		idx = 0x0C
	}
	return idx
}

func (p *PPU) nametableBank(offset uint16) int {
	switch p.cart.Mirroring() {
	case cartridge.Vertical:
		if offset <= 0x03FF || (offset >= 0x0800 && offset <= 0x0BFF) {
			return 0
		}
		return 1
	case cartridge.Horizontal:
		if offset <= 0x07FF {
			return 0
		}
		return 1
	default: // FourScreen: this core's 2KiB of on-PPU VRAM only has two
		// physical banks, so four-screen carts (which supply their own
		// extra VRAM on-cartridge) fold onto the same two banks as
		// vertical mirroring. A mapper-0 cartridge whose header sets
		// flags6 bit 3 takes this path.
		if offset <= 0x03FF || (offset >= 0x0800 && offset <= 0x0BFF) {
			return 0
		}
		return 1
	}
}

func (p *PPU) readNametable(addr uint16) byte {
	offset := addr & 0x0FFF
	return p.nameTables[p.nametableBank(offset)][offset&0x03FF]
}

func (p *PPU) writeNametable(addr uint16, data byte) {
	offset := addr & 0x0FFF
	p.nameTables[p.nametableBank(offset)][offset&0x03FF] = data
}

// Tick advances the PPU by one pixel-time. It returns true on the
// exact cycle an NMI should be delivered to the CPU (vblank start with
// PPUCTRL.nmi_on_vblank set), for the Bus to act on within the same
// master tick.
func (p *PPU) Tick() bool {
	nmi := false
	switch {
	case p.scanline == -1 && p.cycle == 1:
		p.setVBlank(false)
	case p.scanline == 241 && p.cycle == 1:
		p.setVBlank(true)
		if p.nmiOnVBlank() {
			nmi = true
		}
		p.fillBackground()
	}

	p.cycle++
	if p.cycle >= 341 {
		p.cycle = 0
		p.scanline++
		if p.scanline >= 261 {
			p.scanline = -1
			p.frameComplete = true
		}
	}
	return nmi
}

// FrameComplete reports whether a full frame has been produced since
// the last call that consumed it.
func (p *PPU) FrameComplete() bool { return p.frameComplete }

// ConsumeFrameComplete reports and clears the frame-complete pulse.
func (p *PPU) ConsumeFrameComplete() bool {
	v := p.frameComplete
	p.frameComplete = false
	return v
}

// Framebuffer returns the PPU's 256x240 render target. The same
// *image.RGBA is reused across frames; callers that need to retain a
// snapshot should copy it.
func (p *PPU) Framebuffer() *image.RGBA { return p.framebuffer }
