package memory

import "fmt"

// BankError is raised (via panic, recovered by the orchestrator) when a
// bank-switch register selects a bank that runs past the end of the ROM
// image: the cartridge's header claims more banks than the file actually
// contains.
type BankError struct {
	Bank    uint8
	Index   uint32
	ROMSize int
}

func (e *BankError) Error() string {
	return fmt.Sprintf("bank %d indexes 0x%X, past the %d-byte ROM image", e.Bank, e.Index, e.ROMSize)
}

// MBC is the interface every bank-switch controller implements. Kept as an
// interface (rather than folding the single implementation below into the
// bus directly) so a richer mapper can be dropped in later without touching
// bus.go's dispatch.
type MBC interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// noBankSwitch is for cartridges with no bank-switch register: the entire
// 32KB ROM is flatly mapped and ROM writes are ignored; the 8KB RAM window
// at 0xA000-0xBFFF is readable and writable.
type noBankSwitch struct {
	rom []uint8
	ram [0x2000]uint8
}

func newNoBankSwitch(rom []uint8) *noBankSwitch {
	return &noBankSwitch{rom: rom}
}

func (m *noBankSwitch) Read(address uint16) uint8 {
	if address >= 0xA000 {
		return m.ram[address-0xA000]
	}
	if int(address) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[address]
}

func (m *noBankSwitch) Write(address uint16, value uint8) {
	if address >= 0xA000 {
		m.ram[address-0xA000] = value
	}
}

// bankSwitch is the single supported mapper: a 5-bit ROM-bank register at
// 0x2000-0x3FFF, with bank 0 coerced to bank 1 (selecting bank 0 through
// this register would just alias the fixed bank 0 region, so hardware
// rewrites it to 1). Bank 0 (0x0000-0x3FFF) is always the first 16KB of the
// ROM; the switchable window is 0x4000-0x7FFF.
type bankSwitch struct {
	rom  []uint8
	ram  [0x2000]uint8
	bank uint8
}

func newBankSwitch(rom []uint8) *bankSwitch {
	return &bankSwitch{rom: rom, bank: 1}
}

func (m *bankSwitch) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := uint32(m.bank) * 0x4000
		idx := offset + uint32(address-0x4000)
		if idx >= uint32(len(m.rom)) {
			panic(&BankError{Bank: m.bank, Index: idx, ROMSize: len(m.rom)})
		}
		return m.rom[idx]
	case address >= 0xA000 && address <= 0xBFFF:
		return m.ram[address-0xA000]
	default:
		return 0xFF
	}
}

func (m *bankSwitch) Write(address uint16, value uint8) {
	switch {
	case address >= 0x2000 && address <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.bank = bank
	case address >= 0xA000 && address <= 0xBFFF:
		m.ram[address-0xA000] = value
	}
	// writes outside the bank-select and RAM windows (RAM enable, banking
	// mode) are not meaningful for this tier of mapper and are silently
	// dropped.
}
