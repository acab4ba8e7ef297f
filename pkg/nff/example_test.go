package nff_test

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/nff"
)

// ExampleLoad loads a single int32 column whose middle row is NA.
func ExampleLoad() {
	dir, err := os.MkdirTemp("", "nff-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	buf := make([]byte, 12)
	for i, v := range []int32{1, math.MinInt32, 3} {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	if err := os.WriteFile(filepath.Join(dir, "a.bin"), buf, 0o600); err != nil {
		log.Fatal(err)
	}

	colspec, err := nff.NewColspec([]string{"a.bin"}, []string{"i_4"}, []string{""})
	if err != nil {
		log.Fatal(err)
	}
	defer colspec.Release(nil)

	dt, err := nff.Load(colspec, 3, dir)
	if err != nil {
		log.Fatal(err)
	}
	defer dt.Release(nil)

	r, err := dt.Reader(0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(dt.Column(0).SType(), r.Values())

	// Output:
	// int32 [1 <nil> 3]
}

// ExampleLoad_error shows how load failures report their kind.
func ExampleLoad_error() {
	colspec, err := nff.NewColspec([]string{"a.bin"}, []string{"xyz"}, []string{""})
	if err != nil {
		log.Fatal(err)
	}
	defer colspec.Release(nil)

	_, err = nff.Load(colspec, 3, "/data")
	fmt.Println(errors.TypeOf(err), errors.IsType(err, errors.ErrorTypeFormat))

	// Output:
	// format true
}
