package main

import (
	"strings"
	"sync"

	"github.com/himanishpuri/DupeDNA/internal/config"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna"
	"github.com/himanishpuri/DupeDNA/pkg/logger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig reads .env, then the config file, once per process.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadDotEnv(); err != nil {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if lvl, err := logger.ParseLevel(cfg.Logging.Level); err == nil {
			logger.SetLevel(lvl)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newService(cfg *config.Config) (dupedna.Service, error) {
	return dupedna.NewService(cfg.ServiceOptions()...)
}
