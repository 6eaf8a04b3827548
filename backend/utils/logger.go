package utils

import (
	"log"
	"os"
)

// LoggerConfig controls output destination and verbosity of the app logger.
type LoggerConfig struct {
	Output  *os.File
	Verbose bool
}

// InitLogger builds the shared logger. A single std-lib logger with a fixed
// prefix is all the service needs; request logging is layered on top as
// middleware.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	flags := log.LstdFlags | log.LUTC
	if cfg.Verbose {
		flags |= log.Lshortfile
	}

	return log.New(cfg.Output, "[Academix] ", flags)
}
