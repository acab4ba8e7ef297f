package column

import (
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// Verify walks the whole column and checks that untrusted data is
// internally consistent. String offsets get the same walk as at creation
// time; Bool values must be 0, 1 or NA. Other fixed-width stypes have no
// invalid bit patterns.
func (c *Column) Verify() error {
	if c.region == nil {
		return nil
	}

	if c.str != nil {
		return checkOffsets(c.Offset, c.nrows, int64(len(c.StrData())))
	}

	if c.stype == stype.Bool {
		b := c.region.Bytes()
		for i := int64(0); i < c.nrows; i++ {
			if v := int8(b[i]); v != 0 && v != 1 && v != stype.NABool {
				return errors.New(errors.ErrorTypeFormat, "invalid boolean value").
					WithDetail("row", i).
					WithDetail("value", v)
			}
		}
	}
	return nil
}
