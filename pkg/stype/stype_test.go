package stype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheburusska/datatable/pkg/errors"
)

func TestFromCode(t *testing.T) {
	for _, st := range All {
		got, ok := FromCode(st.Code())
		require.True(t, ok, st.Code())
		assert.Equal(t, st, got)
	}

	legacy := map[string]SType{"i1b": Bool, "i4i": Int32, "f8r": Float64, "i4s": Str32, "i8s": Str64}
	for code, want := range legacy {
		got, ok := FromCode(code)
		assert.True(t, ok, code)
		assert.Equal(t, want, got, code)
	}

	for _, bad := range []string{"xyz", "", "i_", "i_44", "I_4", "---"} {
		got, ok := FromCode(bad)
		assert.False(t, ok, bad)
		assert.Equal(t, Void, got, bad)
	}
}

func TestWidths(t *testing.T) {
	tests := []struct {
		st      SType
		elem    int
		offsets int
	}{
		{Bool, 1, 0},
		{Int8, 1, 0},
		{Int16, 2, 0},
		{Int32, 4, 0},
		{Int64, 8, 0},
		{Float32, 4, 0},
		{Float64, 8, 0},
		{Str32, 0, 4},
		{Str64, 0, 8},
		{Void, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.st.String(), func(t *testing.T) {
			assert.Equal(t, tt.elem, tt.st.ElemSize())
			assert.Equal(t, tt.offsets, tt.st.OffsetSize())
			assert.Equal(t, tt.offsets > 0, tt.st.IsString())
		})
	}
	assert.False(t, Void.Valid())
	assert.False(t, SType(200).Valid())
	assert.Equal(t, "invalid", SType(200).String())
}

func TestNASentinels(t *testing.T) {
	assert.True(t, IsNAInt8(math.MinInt8))
	assert.False(t, IsNAInt8(0))
	assert.True(t, IsNAInt16(math.MinInt16))
	assert.True(t, IsNAInt32(math.MinInt32))
	assert.False(t, IsNAInt32(math.MinInt32+1))
	assert.True(t, IsNAInt64(math.MinInt64))
	assert.True(t, IsNAFloat32(NAFloat32()))
	assert.True(t, IsNAFloat64(NAFloat64()))
	assert.True(t, IsNAFloat64(math.NaN()))
	assert.False(t, IsNAFloat64(math.Inf(1)))

	for _, st := range All {
		bits, ok := st.NABits()
		if st.IsString() {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok, st.String())
		assert.True(t, st.IsNABits(bits), st.String())
		assert.False(t, st.IsNABits(1), st.String())
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, stored := range []int64{1, 2, 17, -1, -5, math.MaxInt32, -math.MaxInt32} {
		e := DecodeOffset(stored)
		assert.Equal(t, stored, e.Encode(), "stored=%d", stored)
		assert.Equal(t, stored < 0, e.NA)
	}
	for end := int64(0); end < 50; end++ {
		for _, na := range []bool{false, true} {
			e := DecodeOffset(EncodeOffset(end, na))
			assert.Equal(t, end, e.End)
			assert.Equal(t, na, e.NA)
		}
	}
	assert.Equal(t, OffsetEntry{End: 0, NA: true}, DecodeOffset(SentinelOffset))
}

func TestParseMeta(t *testing.T) {
	m, err := ParseMeta(Int32, "")
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = ParseMeta(Int32, "offoff=8")
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))

	for _, s := range []string{"offoff=16", "16", " offoff = 16 "} {
		m, err = ParseMeta(Str32, s)
		require.NoError(t, err, s)
		assert.Equal(t, int64(16), m.(*VarcharMeta).OffOff)
		assert.Equal(t, "offoff=16", m.String())
	}

	for _, s := range []string{"", "offoff=", "abc", "offoff=-4", "size=8", "offoff=6"} {
		_, err = ParseMeta(Str32, s)
		assert.True(t, errors.IsType(err, errors.ErrorTypeFormat), s)
	}

	_, err = ParseMeta(Str64, "offoff=12")
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat), "str64 offoff must be 8-aligned")
}
