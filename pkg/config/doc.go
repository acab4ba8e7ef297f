// Package config provides configuration for loading, inspecting and
// exporting NFF tables.
//
// # Key Features
//
// - Config: a single structure with Loader, Logging and Export sections
// - Environment variable substitution with ${VAR_NAME} syntax
// - Defaults for every field and validation on load
//
// # Usage
//
// ## Loading a Configuration File
//
//	cfg, err := config.LoadFile("datatable.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	dt, err := nff.NewLoader(cfg.Loader).Open(dir)
//
// Fields missing from the file keep their defaults.
//
// ## Environment Variable Substitution
//
//	# datatable.yaml
//	loader:
//	  use_mmap: true
//	  advise: ${NFF_ADVISE}
//	logging:
//	  level: ${LOG_LEVEL}
//
// # Configuration Structure
//
//	type Config struct {
//		Loader  LoaderConfig  `yaml:"loader" json:"loader"`
//		Logging logger.Config `yaml:"logging" json:"logging"`
//		Export  ExportConfig  `yaml:"export" json:"export"`
//	}
//
// - Loader: decode bounds for colspec strings, mmap on/off and advice,
//   full offsets verification
// - Logging: zap level, encoding and outputs
// - Export: Arrow IPC compression and record batch size
package config
