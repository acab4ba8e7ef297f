package config_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Cheburusska/datatable/pkg/config"
)

// ExampleDefault shows the default loader bounds.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Max filename: %d\n", cfg.Loader.MaxFilenameLen)
	fmt.Printf("Max path: %d\n", cfg.Loader.MaxPathLen)
	fmt.Printf("Max meta: %d\n", cfg.Loader.MaxMetaLen)
	fmt.Printf("Use mmap: %v\n", cfg.Loader.UseMmap)

	// Output:
	// Max filename: 100
	// Max path: 900
	// Max meta: 100
	// Use mmap: true
}

// ExampleLoadFile demonstrates loading configuration from a YAML file
// with environment variable substitution.
func ExampleLoadFile() {
	dir, err := os.MkdirTemp("", "config-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	os.Setenv("EXAMPLE_COMPRESSION", "zstd")
	defer os.Unsetenv("EXAMPLE_COMPRESSION")

	path := filepath.Join(dir, "datatable.yaml")
	yaml := `
loader:
  use_mmap: false
  verify: true
export:
  compression: ${EXAMPLE_COMPRESSION}
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Use mmap:", cfg.Loader.UseMmap)
	fmt.Println("Verify:", cfg.Loader.Verify)
	fmt.Println("Max path:", cfg.Loader.MaxPathLen)
	fmt.Println("Compression:", cfg.Export.Compression)

	// Output:
	// Use mmap: false
	// Verify: true
	// Max path: 900
	// Compression: zstd
}
