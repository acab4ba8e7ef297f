package stype

import (
	"strconv"
	"strings"

	"github.com/Cheburusska/datatable/pkg/errors"
)

// Meta is the stype-specific metadata record of a column. Only string
// stypes carry one.
type Meta interface {
	// String encodes the record in the form stored in the colspec meta column.
	String() string
}

// VarcharMeta describes where the offsets array of a string column begins
// inside the column's combined buffer.
type VarcharMeta struct {
	OffOff int64
}

// String implements Meta.
func (m *VarcharMeta) String() string {
	return "offoff=" + strconv.FormatInt(m.OffOff, 10)
}

// ParseMeta decodes a colspec meta string for the given stype. String
// stypes accept "offoff=N" or a bare decimal N; all other stypes require an
// empty string and return a nil Meta.
func ParseMeta(st SType, s string) (Meta, error) {
	if !st.IsString() {
		if strings.TrimSpace(s) != "" {
			return nil, errors.New(errors.ErrorTypeFormat, "unexpected meta for stype").
				WithDetail("stype", st.Code()).
				WithDetail("value", s)
		}
		return nil, nil
	}

	raw := strings.TrimSpace(s)
	if key, val, ok := strings.Cut(raw, "="); ok {
		if strings.TrimSpace(key) != "offoff" {
			return nil, errors.New(errors.ErrorTypeFormat, "unknown meta key").
				WithDetail("stype", st.Code()).
				WithDetail("value", s)
		}
		raw = strings.TrimSpace(val)
	}
	if raw == "" {
		return nil, errors.New(errors.ErrorTypeFormat, "missing offoff in meta").
			WithDetail("stype", st.Code()).
			WithDetail("value", s)
	}

	off, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "cannot parse offoff").
			WithDetail("stype", st.Code()).
			WithDetail("value", s)
	}
	if off < 0 {
		return nil, errors.New(errors.ErrorTypeFormat, "negative offoff").
			WithDetail("stype", st.Code()).
			WithDetail("value", s)
	}
	if off%int64(st.OffsetSize()) != 0 {
		return nil, errors.New(errors.ErrorTypeFormat, "misaligned offoff").
			WithDetail("stype", st.Code()).
			WithDetail("value", s)
	}
	return &VarcharMeta{OffOff: off}, nil
}
