// Package autoload initializes the global logger from LOG_* environment
// variables on import. Blank-import it from main.
package autoload

import (
	configx "github.com/chayanin/Summit-Goal-Coaching/pkg/config"
	logx "github.com/chayanin/Summit-Goal-Coaching/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
