package memory

import "github.com/crosscode/jeebie/jeebie/bit"

const titleLength = 11

const (
	titleAddress          = 0x134
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	versionNumberAddress  = 0x14C
	headerChecksumAddress = 0x14D
	globalChecksumAddress = 0x14E
)

// MBCType tags which bank-controller variant a cartridge uses. It is
// decoded once from the header's cartridge-type byte and never changes.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC2Type
	MBC3Type
	MBC5Type
)

// ramBankSizes maps the header's RAM-size byte (0x149) to a RAM capacity
// in bytes. Byte 0x01 is a legacy/unused code some early carts used for
// a single 2KiB bank; we size it as such rather than reject it.
var ramBankSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

type Cartridge struct {
	data           []byte
	title          string
	headerChecksum uint16
	globalChecksum uint16
	version        uint8
	cartType       uint8
	romSize        uint8
	ramSize        uint8

	mbcType      MBCType
	hasBattery   bool
	hasRTC       bool
	hasRumble    bool
	ramSizeBytes int
}

// NewCartridge creates an empty cartridge, useful only for debugging purposes.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data: make([]byte, 0x10000),
	}
}

// NewCartridgeWithData initializes a new Cartridge from a ROM image,
// decoding the header fields that determine bank-controller behavior.
func NewCartridgeWithData(data []byte) *Cartridge {
	titleBytes := data[titleAddress : titleAddress+titleLength]

	cart := &Cartridge{
		data:           make([]byte, len(data)),
		title:          cleanGameboyTitle(titleBytes),
		headerChecksum: bit.Combine(data[headerChecksumAddress], data[headerChecksumAddress+1]),
		globalChecksum: bit.Combine(data[globalChecksumAddress], data[globalChecksumAddress+1]),
		version:        data[versionNumberAddress],
		cartType:       data[cartridgeTypeAddress],
		romSize:        data[romSizeAddress],
		ramSize:        data[ramSizeAddress],
	}

	copy(cart.data, data)
	cart.decodeCartType()

	return cart
}

// Title returns the cartridge's cleaned header title. NUL padding,
// non-printable bytes and surrounding whitespace are already handled by
// cleanGameboyTitle at load time.
func (c *Cartridge) Title() string {
	return c.title
}

func (c *Cartridge) decodeCartType() {
	switch c.cartType {
	case 0x00, 0x08, 0x09:
		c.mbcType = NoMBCType
		c.hasBattery = c.cartType == 0x09
	case 0x01, 0x02, 0x03:
		c.mbcType = MBC1Type
		c.hasBattery = c.cartType == 0x03
	case 0x05, 0x06:
		c.mbcType = MBC2Type
		c.hasBattery = c.cartType == 0x06
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		c.mbcType = MBC3Type
		c.hasRTC = c.cartType == 0x0F || c.cartType == 0x10
		c.hasBattery = c.cartType == 0x0F || c.cartType == 0x10 || c.cartType == 0x13
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		c.mbcType = MBC5Type
		c.hasRumble = c.cartType >= 0x1C
		c.hasBattery = c.cartType == 0x1B || c.cartType == 0x1E
	default:
		// MBC6/MBC7/MMM01/pocket-camera and other exotic mappers are out
		// of scope; fall back to plain ROM so the bus never panics on a
		// cartridge type it wasn't built to bank-switch.
		c.mbcType = NoMBCType
	}

	if c.mbcType == MBC2Type {
		// MBC2 has a fixed 512x4-bit built-in RAM regardless of the
		// header's RAM-size byte.
		c.ramSizeBytes = 512
		return
	}

	c.ramSizeBytes = ramBankSizes[c.ramSize]
}
