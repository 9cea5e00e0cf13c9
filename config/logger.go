// config/logger.go
package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)
	logg.SetLevel(logrus.InfoLevel)

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(strings.ToLower(lvl)); err == nil {
			logg.SetLevel(parsed)
		}
	}
}

// GetLogger returns the shared application logger.
func GetLogger() *logrus.Logger {
	return logg
}
