package main

import (
	"fmt"
	"os"

	"github.com/benoitkugler/svg2png/svgicon"
	"github.com/benoitkugler/svg2png/svgrender"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// fileConfig is the content of the optional configuration file, such as
//
//	allow_fixing_missing_viewbox = true
//	remove_alpha_channel         = false
//	background                   = "#ffffff"
//
// Missing attributes keep their default value.
type fileConfig struct {
	AllowFixingMissingViewBox *bool    `hcl:"allow_fixing_missing_viewbox,optional"`
	RemoveAlphaChannel        *bool    `hcl:"remove_alpha_channel,optional"`
	Background                *string  `hcl:"background,optional"`
	Scale                     *float64 `hcl:"scale,optional"`
	ErrorMode                 *string  `hcl:"error_mode,optional"`
	Quiet                     *bool    `hcl:"quiet,optional"`
	Verbose                   *bool    `hcl:"verbose,optional"`
}

// parseConfig decodes an HCL configuration.
func parseConfig(src []byte, filename string) (fileConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fileConfig{}, fmt.Errorf("HCL parse errors: %s", diags.Error())
	}
	var cfg fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return fileConfig{}, fmt.Errorf("invalid configuration: %s", diags.Error())
	}
	return cfg, nil
}

func loadConfigFile(path string) (fileConfig, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	return parseConfig(src, path)
}

// settings are the resolved options of the command, with
// flags taking precedence over the configuration file.
type settings struct {
	allowFix    bool
	removeAlpha bool
	background  string
	scale       float64
	errorMode   string
	quiet       bool
	verbose     bool
}

func defaultSettings() settings {
	return settings{
		allowFix:   true,
		background: "white",
		scale:      1,
		errorMode:  "warn",
	}
}

func (s *settings) applyFile(cfg fileConfig) {
	if cfg.AllowFixingMissingViewBox != nil {
		s.allowFix = *cfg.AllowFixingMissingViewBox
	}
	if cfg.RemoveAlphaChannel != nil {
		s.removeAlpha = *cfg.RemoveAlphaChannel
	}
	if cfg.Background != nil {
		s.background = *cfg.Background
	}
	if cfg.Scale != nil {
		s.scale = *cfg.Scale
	}
	if cfg.ErrorMode != nil {
		s.errorMode = *cfg.ErrorMode
	}
	if cfg.Quiet != nil {
		s.quiet = *cfg.Quiet
	}
	if cfg.Verbose != nil {
		s.verbose = *cfg.Verbose
	}
}

func parseErrorMode(s string) (svgicon.ErrorMode, error) {
	for _, mode := range [...]svgicon.ErrorMode{svgicon.IgnoreErrorMode, svgicon.WarnErrorMode, svgicon.StrictErrorMode} {
		if mode.String() == s {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("invalid error mode %q (expected ignore, warn or strict)", s)
}

// configuration returns the library configuration.
func (s settings) configuration() (svgrender.Configuration, error) {
	config := svgrender.DefaultConfiguration()
	config.AllowFixingMissingViewBox = s.allowFix
	config.RemoveAlphaChannel = s.removeAlpha
	bg, err := svgicon.ParseColor(s.background)
	if err != nil {
		return config, fmt.Errorf("invalid background: %s", err)
	}
	config.Background = bg
	if config.ErrorMode, err = parseErrorMode(s.errorMode); err != nil {
		return config, err
	}
	return config, nil
}
