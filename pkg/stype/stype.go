// Package stype defines the storage types of DataTable columns: their
// on-disk codes, element layout and NA sentinels.
//
// Fixed-width stypes store one little-endian element per row. String stypes
// store an offsets array (int32 or int64 entries) and a raw byte area in one
// buffer; the position of the offsets array is recorded in VarcharMeta.
package stype

// SType is a storage type tag identifying a column's physical encoding.
type SType uint8

const (
	// Void is the zero value and means "unrecognized".
	Void SType = iota
	// Bool is stored as int8 values 0/1, NA = -128.
	Bool
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	// Str32 is a variable-length string column with int32 offsets.
	Str32
	// Str64 is a variable-length string column with int64 offsets.
	Str64
)

// CodeLen is the length of every stype code.
const CodeLen = 3

type info struct {
	code     string
	name     string
	elemSize int
	offSize  int
}

var infos = [...]info{
	Void:    {code: "---", name: "void"},
	Bool:    {code: "b_1", name: "bool8", elemSize: 1},
	Int8:    {code: "i_1", name: "int8", elemSize: 1},
	Int16:   {code: "i_2", name: "int16", elemSize: 2},
	Int32:   {code: "i_4", name: "int32", elemSize: 4},
	Int64:   {code: "i_8", name: "int64", elemSize: 8},
	Float32: {code: "f_4", name: "float32", elemSize: 4},
	Float64: {code: "f_8", name: "float64", elemSize: 8},
	Str32:   {code: "s_4", name: "str32", offSize: 4},
	Str64:   {code: "s_8", name: "str64", offSize: 8},
}

// codes maps every accepted code to its stype. The legacy datatable codes
// are accepted on read; Code always returns the canonical one.
var codes = map[string]SType{
	"b_1": Bool,
	"i_1": Int8,
	"i_2": Int16,
	"i_4": Int32,
	"i_8": Int64,
	"f_4": Float32,
	"f_8": Float64,
	"s_4": Str32,
	"s_8": Str64,

	"i1b": Bool,
	"i1i": Int8,
	"i2i": Int16,
	"i4i": Int32,
	"i8i": Int64,
	"f4r": Float32,
	"f8r": Float64,
	"i4s": Str32,
	"i8s": Str64,
}

// All lists every valid stype in declaration order.
var All = []SType{Bool, Int8, Int16, Int32, Int64, Float32, Float64, Str32, Str64}

// FromCode resolves a 3-character code. It never defaults: an unknown code
// returns (Void, false).
func FromCode(code string) (SType, bool) {
	if len(code) != CodeLen {
		return Void, false
	}
	st, ok := codes[code]
	if !ok {
		return Void, false
	}
	return st, true
}

// Valid reports whether st is one of the defined stypes other than Void.
func (st SType) Valid() bool {
	return st > Void && int(st) < len(infos)
}

// Code returns the canonical 3-character code.
func (st SType) Code() string {
	if int(st) >= len(infos) {
		return infos[Void].code
	}
	return infos[st].code
}

// String returns a human readable name.
func (st SType) String() string {
	if int(st) >= len(infos) {
		return "invalid"
	}
	return infos[st].name
}

// ElemSize returns the fixed element width in bytes, or 0 for variable-length
// stypes.
func (st SType) ElemSize() int {
	if int(st) >= len(infos) {
		return 0
	}
	return infos[st].elemSize
}

// OffsetSize returns the width of one offsets entry for string stypes and 0
// otherwise.
func (st SType) OffsetSize() int {
	if int(st) >= len(infos) {
		return 0
	}
	return infos[st].offSize
}

// IsString reports whether st is a variable-length string stype.
func (st SType) IsString() bool {
	return st == Str32 || st == Str64
}

// IsFloat reports whether st is a floating point stype.
func (st SType) IsFloat() bool {
	return st == Float32 || st == Float64
}

// IsInteger reports whether st is one of the signed integer stypes. Bool is
// not an integer stype even though it shares the int8 layout.
func (st SType) IsInteger() bool {
	return st >= Int8 && st <= Int64
}
