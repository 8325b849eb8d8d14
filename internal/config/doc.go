// Package config defines configuration for the wasget CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (WASGET_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    BaseURI     string
//	    Destination string
//	    User        string
//	    LogFile     string
//	    Verbosity   int
//	    Workers     int
//	    HTTP        HTTPConfig
//	    Query       wasapi.Query
//	}
//
//	type HTTPConfig struct {
//	    Timeout             time.Duration
//	    MaxIdleConnsPerHost int
//	}
package config
