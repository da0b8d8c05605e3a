package main

import (
	"context"
	"strings"
	"sync"

	"github.com/boqmatch/backend/config"
	"github.com/boqmatch/backend/internal/app"
	"github.com/boqmatch/backend/internal/infrastructure/sqlite"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFrom(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withServices builds the full matching stack for the duration of fn
func (c *commandContext) withServices(ctx context.Context, fn func(*app.Services) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	services, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Close()
	return fn(services)
}

// withStore opens only the database, for commands that must not load the catalog
func (c *commandContext) withStore(fn func(*sqlite.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
