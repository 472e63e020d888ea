package main

import (
	"errors"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tunebridge/internal/config"
	"tunebridge/internal/jellyfin"
	"tunebridge/internal/logging"
	"tunebridge/internal/matchstore"
	"tunebridge/internal/provider"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openCache() (*provider.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return provider.Open(cfg.ProviderCachePath())
}

func (c *commandContext) openStores() (*matchstore.OverrideStore, *matchstore.VerifiedStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	overrides := matchstore.NewOverrideStore(cfg.OverridesPath(), logging.NewNop())
	verified := matchstore.NewVerifiedStore(cfg.VerifiedPath(), logging.NewNop())
	if err := overrides.Load(); err != nil {
		return nil, nil, err
	}
	if err := verified.Load(); err != nil {
		return nil, nil, err
	}
	return overrides, verified, nil
}

func (c *commandContext) library() (jellyfin.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client := jellyfin.NewConfiguredClient(cfg)
	if client == nil {
		return nil, errors.New("jellyfin is not configured; set jellyfin.url and jellyfin.api_key (or JELLYFIN_API_KEY)")
	}
	return client, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
