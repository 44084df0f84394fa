package config

import (
	"fmt"
	"net/url"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDIMSE()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StorageRoot) == "" {
		c.Paths.StorageRoot = defaultStorageRoot
	}
	if c.Paths.StorageRoot, err = expandPath(c.Paths.StorageRoot); err != nil {
		return fmt.Errorf("paths.storage_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.Bind = strings.TrimSpace(c.Paths.Bind)
	if c.Paths.Bind == "" {
		c.Paths.Bind = defaultBind
	}
	return nil
}

func (c *Config) normalizeDIMSE() {
	c.DIMSE.EngineURL = strings.TrimRight(strings.TrimSpace(c.DIMSE.EngineURL), "/")
	if c.DIMSE.EngineURL == "" {
		c.DIMSE.EngineURL = defaultEngineURL
	}
	c.DIMSE.AET = strings.TrimSpace(c.DIMSE.AET)
	if c.DIMSE.AET == "" {
		c.DIMSE.AET = defaultAET
	}
	if c.DIMSE.TimeoutSeconds <= 0 {
		c.DIMSE.TimeoutSeconds = defaultDIMSETimeout
	}
}

func (c *Config) normalizeCache() {
	c.Cache.TransferSyntax = strings.TrimSpace(c.Cache.TransferSyntax)
	if c.Cache.TransferSyntax == "" {
		c.Cache.TransferSyntax = defaultTransferSyntax
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.DIMSE.EngineURL); err != nil {
		return fmt.Errorf("dimse.engine_url: %w", err)
	}
	if len(c.DIMSE.AET) > 16 {
		return fmt.Errorf("dimse.aet: %q exceeds 16 characters", c.DIMSE.AET)
	}
	for _, r := range c.Cache.TransferSyntax {
		if (r < '0' || r > '9') && r != '.' {
			return fmt.Errorf("cache.transfer_syntax: %q is not a valid UID", c.Cache.TransferSyntax)
		}
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
