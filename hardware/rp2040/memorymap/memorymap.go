// This file is part of rp2040emu.
//
// rp2040emu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// rp2040emu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with rp2040emu.  If not, see <https://www.gnu.org/licenses/>.

// Package memorymap describes the RP2040 address space. The origins and sizes
// of the memory regions are constants, as are the base addresses of the
// peripherals on the APB bus.
//
// The Region() function identifies which part of the address space an address
// belongs to. It does not say whether the address is backed by anything in
// the emulation. That is the job of the bus.
package memorymap

import "fmt"

// Origins and sizes of the main memory regions.
const (
	BootROMOrigin = uint32(0x00000000)
	BootROMSize   = 16 * 1024

	FlashOrigin = uint32(0x10000000)
	FlashMemtop = uint32(0x13ffffff)
	FlashSize   = 16 * 1024 * 1024

	XIPSSIOrigin = uint32(0x18000000)

	SRAMOrigin = uint32(0x20000000)
	SRAMSize   = 264 * 1024
	SRAMMemtop = SRAMOrigin + SRAMSize - 1

	APBOrigin = uint32(0x40000000)
	APBMemtop = uint32(0x4fffffff)

	AHBOrigin = uint32(0x50000000)

	SIOOrigin = uint32(0xd0000000)
	SIOMemtop = uint32(0xdfffffff)

	PPBOrigin = uint32(0xe0000000)
)

// Offsets into the SIO block.
const (
	SIOCPUID      = uint32(0x000)
	SIOGPIOIn     = uint32(0x004)
	SIOGPIOOut    = uint32(0x010)
	SIOGPIOOutSet = uint32(0x014)
	SIOGPIOOutClr = uint32(0x018)
	SIOGPIOOutXor = uint32(0x01c)
	SIOGPIOOE     = uint32(0x020)
	SIOGPIOOESet  = uint32(0x024)
	SIOGPIOOEClr  = uint32(0x028)
	SIOGPIOOEXor  = uint32(0x02c)
)

// Registers of the XIP SSI used by the flash second stage bootloader.
const (
	SSISR  = XIPSSIOrigin + 0x28
	SSIDR0 = XIPSSIOrigin + 0x60
)

// Registers in the system control space of the private peripheral bus.
const (
	VTOR  = PPBOrigin + 0xed08
	SHPR2 = PPBOrigin + 0xed1c
	SHPR3 = PPBOrigin + 0xed20
)

// Clock selection registers. Firmware waits on these after switching the
// clock source.
const (
	ClocksOrigin   = uint32(0x40008000)
	ClkRefSelected = ClocksOrigin + 0x38
	ClkSysSelected = ClocksOrigin + 0x44
)

// Area identifies a region of the address space.
type Area int

// List of valid Area values.
const (
	Unmapped Area = iota
	BootROM
	Flash
	XIP
	SRAM
	APB
	AHB
	SIO
	PPB
)

func (a Area) String() string {
	switch a {
	case BootROM:
		return "boot ROM"
	case Flash:
		return "flash"
	case XIP:
		return "XIP"
	case SRAM:
		return "SRAM"
	case APB:
		return "APB"
	case AHB:
		return "AHB"
	case SIO:
		return "SIO"
	case PPB:
		return "PPB"
	}
	return "unmapped"
}

// Region returns the Area of the address.
func Region(addr uint32) Area {
	switch {
	case addr < BootROMOrigin+BootROMSize:
		return BootROM
	case addr >= FlashOrigin && addr <= FlashMemtop:
		return Flash
	case addr >= FlashMemtop+1 && addr < SRAMOrigin:
		return XIP
	case addr >= SRAMOrigin && addr <= SRAMMemtop:
		return SRAM
	case addr >= APBOrigin && addr <= APBMemtop:
		return APB
	case addr >= AHBOrigin && addr < AHBOrigin+0x10000000:
		return AHB
	case addr >= SIOOrigin && addr <= SIOMemtop:
		return SIO
	case addr >= PPBOrigin:
		return PPB
	}
	return Unmapped
}

// PeripheralKey returns the key used to identify the peripheral that owns the
// address. Each peripheral occupies a 16KB block so the key is the block
// number shifted left by two. For example, the key for 0x40034000 is 0x40034.
func PeripheralKey(addr uint32) uint32 {
	return (addr >> 14) << 2
}

// PeripheralOffset returns the offset of the address inside the peripheral's
// block.
func PeripheralOffset(addr uint32) uint32 {
	return addr & 0x3fff
}

// Peripheral is the name and base address of a peripheral on the APB bus.
type Peripheral struct {
	Name string
	Base uint32
}

func (p Peripheral) String() string {
	return fmt.Sprintf("%s (%08x)", p.Name, p.Base)
}

// Key returns the peripheral key for the base address.
func (p Peripheral) Key() uint32 {
	return PeripheralKey(p.Base)
}

// Names of the peripherals that have a model in the emulation.
const (
	SysCfg = "SYSCFG"
	UART0  = "UART0"
	UART1  = "UART1"
	Timer  = "TIMER"
)

// APBPeripherals lists every peripheral on the APB bus, in address order. The
// CLOCKS block is not included because the only registers that firmware
// depends on are supplied by the bus hooks.
var APBPeripherals = []Peripheral{
	{Name: "SYSINFO", Base: 0x40000000},
	{Name: SysCfg, Base: 0x40004000},
	{Name: "RESETS", Base: 0x4000c000},
	{Name: "PSM", Base: 0x40010000},
	{Name: "IO_BANK0", Base: 0x40014000},
	{Name: "IO_QSPI", Base: 0x40018000},
	{Name: "PADS_BANK0", Base: 0x4001c000},
	{Name: "PADS_QSPI", Base: 0x40020000},
	{Name: "XOSC", Base: 0x40024000},
	{Name: "PLL_SYS", Base: 0x40028000},
	{Name: "PLL_USB", Base: 0x4002c000},
	{Name: "BUSCTRL", Base: 0x40030000},
	{Name: UART0, Base: 0x40034000},
	{Name: UART1, Base: 0x40038000},
	{Name: "SPI0", Base: 0x4003c000},
	{Name: "SPI1", Base: 0x40040000},
	{Name: "I2C0", Base: 0x40044000},
	{Name: "I2C1", Base: 0x40048000},
	{Name: "ADC", Base: 0x4004c000},
	{Name: "PWM", Base: 0x40050000},
	{Name: Timer, Base: 0x40054000},
	{Name: "WATCHDOG", Base: 0x40058000},
	{Name: "RTC", Base: 0x4005c000},
	{Name: "ROSC", Base: 0x40060000},
	{Name: "VREG_AND_CHIP_RESET", Base: 0x40064000},
	{Name: "TBMAN", Base: 0x4006c000},
}
