package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DatabaseFile is the path to the catalog SQLite database
	DatabaseFile string
	// GutendexBaseURL is the base URL of the Gutendex book catalog API
	GutendexBaseURL string
	// GutendexTimeout is the HTTP timeout for catalog API requests
	GutendexTimeout time.Duration
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("database.file", "./literalura.db")
	viper.SetDefault("gutendex.baseurl", "https://gutendex.com")
	viper.SetDefault("gutendex.timeout", "10s")

	// Get values from viper
	DatabaseFile = viper.GetString("database.file")
	GutendexBaseURL = viper.GetString("gutendex.baseurl")
	GutendexTimeout = viper.GetDuration("gutendex.timeout")
}

// SetDatabaseFile sets the catalog database path
func SetDatabaseFile(path string) {
	DatabaseFile = path
}
