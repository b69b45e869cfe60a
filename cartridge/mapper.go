package cartridge

import "fmt"

// Mapper translates CPU/PPU bus addresses into physical offsets inside
// the cartridge's owned PRG/CHR byte slices. A false second return
// means the address is not claimed by the cartridge's address-
// translation logic for that operation and the caller (Cartridge)
// reports "not present" rather than guessing an offset. The one
// exception is Cartridge.PPUWrite on a CHR RAM cartridge, which writes
// addresses 0x0000-0x1FFF directly when the mapper declines.
//
// This is the NES hardware's bank-switching logic modeled as a small,
// closed interface rather than a class hierarchy: the set of mappers a
// build supports is fixed at registration time and dispatch is a
// single interface call, no virtual-table depth beyond that.
type Mapper interface {
	MapCPURead(addr uint16) (uint32, bool)
	MapCPUWrite(addr uint16) (uint32, bool)
	MapPPURead(addr uint16) (uint32, bool)
	MapPPUWrite(addr uint16) (uint32, bool)
}

// mapperFactory builds a Mapper for a cartridge with the given bank
// counts. numPRG is in 16 KiB units, numCHR in 8 KiB units.
type mapperFactory func(numPRG, numCHR int) Mapper

var mapperRegistry = map[int]mapperFactory{}

// RegisterMapper adds a mapper implementation to the registry keyed by
// its iNES mapper id. Intended to be called from an init() function,
// the way bdwalton-gintendo's mappers package registers its mapper
// constructors.
func RegisterMapper(id int, factory mapperFactory) {
	mapperRegistry[id] = factory
}

func newMapper(id, numPRG, numCHR int) (Mapper, error) {
	factory, ok := mapperRegistry[id]
	if !ok {
		return nil, fmt.Errorf("cartridge: unsupported mapper id %d", id)
	}
	return factory(numPRG, numCHR), nil
}
