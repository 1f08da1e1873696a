package logging

import (
	"github.com/sirupsen/logrus"
)

// Setup builds the process logger from a level string. Unparseable levels
// fall back to info rather than failing startup.
func Setup(level string) *logrus.Logger {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log
}
