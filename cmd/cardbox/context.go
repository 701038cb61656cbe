package main

import (
	"strings"
	"sync"

	"cardbox/internal/api"
	"cardbox/internal/config"
)

type commandContext struct {
	serverFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// client resolves the daemon address from the --server flag, falling back
// to the configured bind address.
func (c *commandContext) client() *api.Client {
	var bind string
	if c.serverFlag != nil {
		bind = strings.TrimSpace(*c.serverFlag)
	}
	if bind == "" {
		if cfg, err := c.ensureConfig(); err == nil {
			bind = cfg.Paths.APIBind
		}
	}
	return api.NewClient(bind)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
