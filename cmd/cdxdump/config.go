package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Rigid    bool     `toml:"rigid"`
	MaxDepth int      `toml:"max_depth"`
	MaxNodes int      `toml:"max_nodes"`
	Catalogs []string `toml:"catalogs"`
	Verbose  bool     `toml:"verbose"`
}

// dumpConfig is the effective configuration after the config file and
// the command line have been merged.
type dumpConfig struct {
	Rigid    bool
	MaxDepth int
	MaxNodes int
	Catalogs []string
	Verbose  bool
}

func loadConfig(path string) (dumpConfig, error) {
	cfg := dumpConfig{}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dumpConfig{}, fmt.Errorf("load cdxdump config: %w", err)
	}

	if meta.IsDefined("rigid") {
		cfg.Rigid = raw.Rigid
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 0 {
			return dumpConfig{}, fmt.Errorf("max_depth must not be negative")
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("max_nodes") {
		if raw.MaxNodes < 0 {
			return dumpConfig{}, fmt.Errorf("max_nodes must not be negative")
		}
		cfg.MaxNodes = raw.MaxNodes
	}

	if meta.IsDefined("catalogs") {
		cfg.Catalogs = normalizePaths(raw.Catalogs)
	}

	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}

	return cfg, nil
}

// Flags given on the command line win over the file. Booleans can
// only be switched on.
func (self dumpConfig) merge(flags dumpConfig) dumpConfig {
	result := self
	result.Rigid = self.Rigid || flags.Rigid
	result.Verbose = self.Verbose || flags.Verbose

	if flags.MaxDepth > 0 {
		result.MaxDepth = flags.MaxDepth
	}
	if flags.MaxNodes > 0 {
		result.MaxNodes = flags.MaxNodes
	}
	result.Catalogs = append(append([]string{}, self.Catalogs...),
		normalizePaths(flags.Catalogs)...)
	return result
}

func normalizePaths(in []string) []string {
	out := make([]string, 0, len(in))
	for _, path := range in {
		v := strings.TrimSpace(path)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
