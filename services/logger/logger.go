package logsvc

import (
	"log"
	"os"

	"github.com/trezcool/skillxp/core"
)

// New returns a logger writing to stdout under prefix (e.g. "API : ").
// Rollbar reporting is enabled outside debug mode when a token is set.
func New(prefix string, conf *core.Config, flags ...int) *RollbarLogger {
	flag := log.LstdFlags
	if len(flags) > 0 {
		flag = flags[0]
	}
	logger := NewRollbarLogger(log.New(os.Stdout, prefix, flag), conf)
	logger.Enable(!conf.Debug && !conf.TestMode && conf.RollbarToken != "")
	return logger
}
