package main

import (
	"tunepress/internal/config"
)

// commandContext lazily resolves configuration shared by all subcommands.
type commandContext struct {
	configFlag *string

	cfg     *config.Config
	cfgPath string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and caches it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolvedPath, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = resolvedPath
	return cfg, nil
}

// configPathOverride returns the path given on the command line, or empty
// when the default locations should be used.
func (c *commandContext) configPathOverride() string {
	if c.configFlag == nil {
		return ""
	}
	return *c.configFlag
}

// configFilePath reports where the active configuration was resolved from.
// Valid only after ensureConfig has succeeded.
func (c *commandContext) configFilePath() string {
	if c.cfgPath == "" {
		return "(defaults)"
	}
	return c.cfgPath
}
