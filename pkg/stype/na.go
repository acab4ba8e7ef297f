package stype

import "math"

// NA sentinels. Integer stypes reserve their minimum value; Bool shares the
// int8 sentinel.
const (
	NAInt8  int8  = math.MinInt8
	NAInt16 int16 = math.MinInt16
	NAInt32 int32 = math.MinInt32
	NAInt64 int64 = math.MinInt64

	// NAFloat32Bits and NAFloat64Bits are the NaN payloads written for NA.
	NAFloat32Bits uint32 = 0x7F8007A2
	NAFloat64Bits uint64 = 0x7FF00000000007A2
)

// NABool is the stored byte of a NA boolean.
const NABool = NAInt8

// NAFloat32 returns the float32 NA value.
func NAFloat32() float32 { return math.Float32frombits(NAFloat32Bits) }

// NAFloat64 returns the float64 NA value.
func NAFloat64() float64 { return math.Float64frombits(NAFloat64Bits) }

func IsNAInt8(v int8) bool   { return v == NAInt8 }
func IsNAInt16(v int16) bool { return v == NAInt16 }
func IsNAInt32(v int32) bool { return v == NAInt32 }
func IsNAInt64(v int64) bool { return v == NAInt64 }

// IsNAFloat32 treats every NaN as NA, not only the canonical payload.
func IsNAFloat32(v float32) bool { return v != v }

// IsNAFloat64 treats every NaN as NA, not only the canonical payload.
func IsNAFloat64(v float64) bool { return math.IsNaN(v) }

// NABits returns the little-endian bit pattern of NA for a fixed-width stype
// widened to uint64, and false for string stypes whose NA marker lives in
// the offsets array.
func (st SType) NABits() (uint64, bool) {
	switch st {
	case Bool, Int8:
		return 0x80, true
	case Int16:
		return 0x8000, true
	case Int32:
		return 0x80000000, true
	case Int64:
		return 1 << 63, true
	case Float32:
		return uint64(NAFloat32Bits), true
	case Float64:
		return NAFloat64Bits, true
	}
	return 0, false
}

// IsNABits tests a raw element (already widened from its stored width) for
// NA. It is the inverse of NABits for integer stypes; floats test for NaN.
func (st SType) IsNABits(bits uint64) bool {
	switch st {
	case Bool, Int8:
		return int8(bits) == NAInt8
	case Int16:
		return int16(bits) == NAInt16
	case Int32:
		return int32(bits) == NAInt32
	case Int64:
		return int64(bits) == NAInt64
	case Float32:
		return IsNAFloat32(math.Float32frombits(uint32(bits)))
	case Float64:
		return IsNAFloat64(math.Float64frombits(bits))
	}
	return false
}
