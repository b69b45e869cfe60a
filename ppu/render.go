package ppu

import (
	"image"
	"image/color"
)

func (p *PPU) colorFromPalette(palette, pixel byte) color.RGBA {
	idx := p.ppuRead(0x3F00 + uint16(palette)<<2 + uint16(pixel))
	return masterPalette[idx%64]
}

// RenderPatternTable decodes one of the two 128x128 CHR pattern tables
// under the given palette, for conformance tests and debug tooling.
func (p *PPU) RenderPatternTable(table int, palette byte) *image.RGBA {
	surface := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			tileIndex := tileY*16 + tileX
			for row := 0; row < 8; row++ {
				lsb := p.ppuRead(uint16(table*0x1000 + tileIndex*16 + row))
				msb := p.ppuRead(uint16(table*0x1000 + tileIndex*16 + row + 8))
				for col := 0; col < 8; col++ {
					shift := 7 - col
					bit := byte(1 << uint(shift))
					pixel := ((lsb & bit) >> uint(shift)) + ((msb & bit) >> uint(shift))
					surface.SetRGBA(tileX*8+col, tileY*8+row, p.colorFromPalette(palette, pixel))
				}
			}
		}
	}
	return surface
}

// RenderPalette renders a 16x4 swatch of one of the eight 4-color
// palettes, for conformance tests and debug tooling.
func (p *PPU) RenderPalette(palette byte) *image.RGBA {
	surface := image.NewRGBA(image.Rect(0, 0, 16, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 16; x++ {
			colorIndex := byte(x / 4)
			surface.SetRGBA(x, y, p.colorFromPalette(palette, colorIndex))
		}
	}
	return surface
}

// fillBackground fills the 256x240 framebuffer once per frame at the
// vblank boundary, decoding the active nametable against the selected
// background pattern table. This core does not model sprite
// evaluation or fine-x scrolling (see spec's Non-goals); the active
// nametable is simply the one named by PPUCTRL's nametable_select.
func (p *PPU) fillBackground() {
	base := uint16(0x2000) + p.nametableSelect()*0x400
	attrBase := base + 0x3C0

	for tileRow := 0; tileRow < 30; tileRow++ {
		for tileCol := 0; tileCol < 32; tileCol++ {
			tileID := p.ppuRead(base + uint16(tileRow*32+tileCol))

			attrByte := p.ppuRead(attrBase + uint16((tileRow/4)*8+(tileCol/4)))
			shift := uint(((tileRow%4)/2)*4 + ((tileCol%4)/2)*2)
			paletteIdx := (attrByte >> shift) & 0x03

			patternBase := p.backgroundPatternBase() + uint16(tileID)*16
			for row := 0; row < 8; row++ {
				lsb := p.ppuRead(patternBase + uint16(row))
				msb := p.ppuRead(patternBase + uint16(row) + 8)
				for col := 0; col < 8; col++ {
					shiftCol := 7 - col
					bit := byte(1 << uint(shiftCol))
					pixel := ((lsb & bit) >> uint(shiftCol)) + ((msb & bit) >> uint(shiftCol))
					x := tileCol*8 + col
					y := tileRow*8 + row
					p.framebuffer.SetRGBA(x, y, p.colorFromPalette(paletteIdx, pixel))
				}
			}
		}
	}
}
