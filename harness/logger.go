package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/N3ro47/lockfree/std/log"
)

var logFileObj *os.File

// OpenLogger installs the default logger described by the configuration.
// A relative log file is resolved against the config file directory.
func OpenLogger(c *Config) error {
	level, err := log.ParseLevel(c.Core.LogLevel)
	if err != nil {
		return err
	}

	out := os.Stderr
	if c.Core.LogFile != "" {
		path := c.Core.LogFile
		if !filepath.IsAbs(path) && c.Core.BaseDir != "" {
			path = filepath.Join(c.Core.BaseDir, path)
		}
		out, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		logFileObj = out
	}

	logger := log.NewText(out)
	logger.SetLevel(level)
	log.SetDefault(logger)
	return nil
}

// CloseLogger restores the stderr logger and closes the log file.
func CloseLogger() {
	log.SetDefault(log.NewText(os.Stderr))
	if logFileObj != nil {
		logFileObj.Close()
		logFileObj = nil
	}
}
