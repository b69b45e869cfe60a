package ppu

import "image/color"

// masterPalette is the fixed 64-entry NES color lookup table, ported
// from the reference PPU's palette_array. It is a process-wide
// constant embedded directly in the PPU module, per spec design note
// on the global palette table.
var masterPalette = [64]color.RGBA{
	{R: 84, G: 84, B: 84, A: 255}, {R: 0, G: 30, B: 116, A: 255}, {R: 8, G: 16, B: 144, A: 255}, {R: 48, G: 0, B: 136, A: 255},
	{R: 68, G: 0, B: 100, A: 255}, {R: 92, G: 0, B: 48, A: 255}, {R: 84, G: 4, B: 0, A: 255}, {R: 60, G: 24, B: 0, A: 255},
	{R: 32, G: 42, B: 0, A: 255}, {R: 8, G: 58, B: 0, A: 255}, {R: 0, G: 64, B: 0, A: 255}, {R: 0, G: 60, B: 0, A: 255},
	{R: 0, G: 50, B: 60, A: 255}, {R: 0, G: 0, B: 0, A: 255}, {R: 0, G: 0, B: 0, A: 255}, {R: 0, G: 0, B: 0, A: 255},

	{R: 152, G: 150, B: 152, A: 255}, {R: 8, G: 76, B: 196, A: 255}, {R: 48, G: 50, B: 236, A: 255}, {R: 92, G: 30, B: 228, A: 255},
	{R: 136, G: 20, B: 176, A: 255}, {R: 160, G: 20, B: 100, A: 255}, {R: 152, G: 34, B: 32, A: 255}, {R: 120, G: 60, B: 0, A: 255},
	{R: 84, G: 90, B: 0, A: 255}, {R: 40, G: 114, B: 0, A: 255}, {R: 8, G: 124, B: 0, A: 255}, {R: 0, G: 118, B: 40, A: 255},
	{R: 0, G: 102, B: 120, A: 255}, {R: 0, G: 0, B: 0, A: 255}, {R: 0, G: 0, B: 0, A: 255}, {R: 0, G: 0, B: 0, A: 255},

	{R: 236, G: 238, B: 236, A: 255}, {R: 76, G: 154, B: 236, A: 255}, {R: 120, G: 124, B: 236, A: 255}, {R: 176, G: 98, B: 236, A: 255},
	{R: 228, G: 84, B: 236, A: 255}, {R: 236, G: 88, B: 180, A: 255}, {R: 236, G: 106, B: 100, A: 255}, {R: 212, G: 136, B: 32, A: 255},
	{R: 160, G: 170, B: 0, A: 255}, {R: 116, G: 196, B: 0, A: 255}, {R: 76, G: 208, B: 32, A: 255}, {R: 56, G: 204, B: 108, A: 255},
	{R: 56, G: 180, B: 204, A: 255}, {R: 60, G: 60, B: 60, A: 255}, {R: 0, G: 0, B: 0, A: 255}, {R: 0, G: 0, B: 0, A: 255},

	{R: 236, G: 238, B: 236, A: 255}, {R: 168, G: 204, B: 236, A: 255}, {R: 188, G: 188, B: 236, A: 255}, {R: 212, G: 178, B: 236, A: 255},
	{R: 236, G: 174, B: 236, A: 255}, {R: 236, G: 174, B: 212, A: 255}, {R: 236, G: 180, B: 176, A: 255}, {R: 228, G: 196, B: 144, A: 255},
	{R: 204, G: 210, B: 120, A: 255}, {R: 180, G: 222, B: 120, A: 255}, {R: 168, G: 226, B: 144, A: 255}, {R: 152, G: 226, B: 180, A: 255},
	{R: 160, G: 214, B: 228, A: 255}, {R: 160, G: 162, B: 160, A: 255}, {R: 0, G: 0, B: 0, A: 255}, {R: 0, G: 0, B: 0, A: 255},
}
