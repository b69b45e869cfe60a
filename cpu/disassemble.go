package cpu

import "fmt"

// Disassemble decodes [start, end] into a map from instruction address
// to its rendered mnemonic+operand string, walking one instruction at
// a time by the addressing mode's operand length. It reads bytes
// straight off the bus and never touches CPU register state, so it is
// safe to call at any point without perturbing execution.
func Disassemble(bus Bus, start, end uint16) map[uint16]string {
	out := make(map[uint16]string)
	addr := start
	for addr <= end {
		instrAddr := addr
		opcode := bus.Read(addr)
		addr++
		instr := opcodeTable[opcode]

		var text string
		switch instr.mode {
		case IMP:
			text = instr.mnemonic
		case ACC:
			text = instr.mnemonic + " A"
		case IMM:
			v := bus.Read(addr)
			addr++
			text = fmt.Sprintf("%s #$%02X", instr.mnemonic, v)
		case ZP0:
			v := bus.Read(addr)
			addr++
			text = fmt.Sprintf("%s $%02X", instr.mnemonic, v)
		case ZPX:
			v := bus.Read(addr)
			addr++
			text = fmt.Sprintf("%s $%02X,X", instr.mnemonic, v)
		case ZPY:
			v := bus.Read(addr)
			addr++
			text = fmt.Sprintf("%s $%02X,Y", instr.mnemonic, v)
		case ABS:
			lo := uint16(bus.Read(addr))
			hi := uint16(bus.Read(addr + 1))
			addr += 2
			text = fmt.Sprintf("%s $%04X", instr.mnemonic, lo|(hi<<8))
		case ABX:
			lo := uint16(bus.Read(addr))
			hi := uint16(bus.Read(addr + 1))
			addr += 2
			text = fmt.Sprintf("%s $%04X,X", instr.mnemonic, lo|(hi<<8))
		case ABY:
			lo := uint16(bus.Read(addr))
			hi := uint16(bus.Read(addr + 1))
			addr += 2
			text = fmt.Sprintf("%s $%04X,Y", instr.mnemonic, lo|(hi<<8))
		case IND:
			lo := uint16(bus.Read(addr))
			hi := uint16(bus.Read(addr + 1))
			addr += 2
			text = fmt.Sprintf("%s ($%04X)", instr.mnemonic, lo|(hi<<8))
		case IZX:
			v := bus.Read(addr)
			addr++
			text = fmt.Sprintf("%s ($%02X,X)", instr.mnemonic, v)
		case IZY:
			v := bus.Read(addr)
			addr++
			text = fmt.Sprintf("%s ($%02X),Y", instr.mnemonic, v)
		case REL:
			rel := bus.Read(addr)
			addr++
			target := uint16(int32(addr) + int32(int8(rel)))
			text = fmt.Sprintf("%s $%02X [$%04X]", instr.mnemonic, rel, target)
		default:
			text = instr.mnemonic
		}

		out[instrAddr] = text
	}
	return out
}
