package stype

// OffsetEntry is the decoded form of one stored string offset.
type OffsetEntry struct {
	// End is the exclusive end of the row's bytes within the byte area.
	End int64
	NA  bool
}

// EncodeOffset returns the stored form of a row's end offset: end+1,
// negated when the row is NA.
func EncodeOffset(end int64, na bool) int64 {
	v := end + 1
	if na {
		return -v
	}
	return v
}

// DecodeOffset is the inverse of EncodeOffset. A stored value of 0 cannot be
// produced by EncodeOffset for a non-negative end and decodes to End == -1;
// callers validating untrusted data must reject it.
func DecodeOffset(stored int64) OffsetEntry {
	if stored < 0 {
		return OffsetEntry{End: -stored - 1, NA: true}
	}
	return OffsetEntry{End: stored - 1}
}

// Encode is a convenience for EncodeOffset(e.End, e.NA).
func (e OffsetEntry) Encode() int64 {
	return EncodeOffset(e.End, e.NA)
}

// SentinelOffset is the value stored in the slot preceding offsets[0] in the
// native string layout: a NA row ending at byte 0.
const SentinelOffset int64 = -1
