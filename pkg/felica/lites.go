package felica

// FeliCa Lite-S cards can't be asked to list their own services: they
// always expose exactly two fixed service codes, with a fixed, well-known
// set of 16-byte blocks underneath. LiteSSystemService/LiteSUserService and
// LiteSBlockNames below are used as the fallback when RequestSystemCode
// fails, per the probe entirely taken over from the catalogue.

// LiteSSystemService is the fixed system-area service code on a Lite-S card.
var LiteSSystemService = ServiceCode{Code: 0x000B, Number: 0, Kind: ServiceRandom, Access: AccessReadOnly}

// LiteSUserService is the fixed user-area service code on a Lite-S card.
var LiteSUserService = ServiceCode{Code: 0x0009, Number: 0, Kind: ServiceRandom, Access: AccessReadWrite}

// LiteSBlockName names one of a Lite-S card's fixed blocks.
type LiteSBlockName struct {
	BlockNum uint16
	Name     string
}

// LiteSBlockNames is the complete, fixed catalogue of Lite-S blocks,
// transcribed verbatim from the reference implementation this toolkit is
// grounded on.
var LiteSBlockNames = []LiteSBlockName{
	{0x00, "S_PAD0"},
	{0x01, "S_PAD1"},
	{0x02, "S_PAD2"},
	{0x03, "S_PAD3"},
	{0x04, "S_PAD4"},
	{0x05, "S_PAD5"},
	{0x06, "S_PAD6"},
	{0x07, "S_PAD7"},
	{0x08, "S_PAD8"},
	{0x09, "S_PAD9"},
	{0x0A, "S_PAD10"},
	{0x0B, "S_PAD11"},
	{0x0C, "S_PAD12"},
	{0x0D, "S_PAD13"},
	{0x0E, "REG"},
	{0x80, "RC"},
	{0x81, "MAC"},
	{0x82, "ID"},
	{0x83, "D_ID"},
	{0x84, "SER_C"},
	{0x85, "SYS_C"},
	{0x86, "CKV"},
	{0x87, "CK"},
	{0x88, "MC"},
	{0x90, "WCNT"},
	{0x91, "MAC_A"},
	{0x92, "STATE"},
	{0xA0, "CRC_CHK"},
}
