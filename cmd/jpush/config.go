// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/creachadair/jpush"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// config holds the parser settings shared by all commands. Settings are read
// from an optional YAML file, and flags set on the command line override the
// values from the file.
type config struct {
	Comments        bool `yaml:"comments"`
	TrailingCommas  bool `yaml:"trailing-commas"`
	InvalidUTF8     bool `yaml:"invalid-utf8"`
	TrailingGarbage bool `yaml:"trailing-garbage"`
	Multiple        bool `yaml:"multiple"`
	Partial         bool `yaml:"partial"`
	MaxDepth        int  `yaml:"max-depth"`
	Chunk           int  `yaml:"chunk"`
}

// options binds the config flags and the input selection flags of a command.
type options struct {
	flags      config
	configPath string
	url        string
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "read parser settings from this YAML file")
	fs.StringVar(&o.url, "url", "", "read messages from this WebSocket URL instead of a file")

	fs.BoolVar(&o.flags.Comments, "comments", false, "allow /* block */ and // line comments")
	fs.BoolVar(&o.flags.TrailingCommas, "trailing-commas", false, "allow a comma after the last array element or object member")
	fs.BoolVar(&o.flags.InvalidUTF8, "invalid-utf8", false, "pass malformed UTF-8 in strings")
	fs.BoolVar(&o.flags.TrailingGarbage, "trailing-garbage", false, "ignore input after the first value")
	fs.BoolVar(&o.flags.Multiple, "multiple", false, "accept a stream of concatenated values")
	fs.BoolVar(&o.flags.Partial, "partial", false, "close an incomplete value at end of input")
	fs.IntVar(&o.flags.MaxDepth, "max-depth", 0, "maximum nesting depth (0 means unlimited)")
	fs.IntVar(&o.flags.Chunk, "chunk", 0, "read size in bytes (0 means the default)")
}

// resolve returns the effective config: the contents of the config file, if
// any, overridden by the flags that were set in fs.
func (o *options) resolve(fs *pflag.FlagSet) (config, error) {
	var cfg config
	if o.configPath != "" {
		data, err := os.ReadFile(o.configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", o.configPath, err)
		}
		log.Debugf("loaded config from %s: %+v", o.configPath, cfg)
	}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "comments":
			cfg.Comments = o.flags.Comments
		case "trailing-commas":
			cfg.TrailingCommas = o.flags.TrailingCommas
		case "invalid-utf8":
			cfg.InvalidUTF8 = o.flags.InvalidUTF8
		case "trailing-garbage":
			cfg.TrailingGarbage = o.flags.TrailingGarbage
		case "multiple":
			cfg.Multiple = o.flags.Multiple
		case "partial":
			cfg.Partial = o.flags.Partial
		case "max-depth":
			cfg.MaxDepth = o.flags.MaxDepth
		case "chunk":
			cfg.Chunk = o.flags.Chunk
		}
	})
	if cfg.MaxDepth < 0 || cfg.Chunk < 0 {
		return cfg, errors.New("max-depth and chunk must not be negative")
	}
	return cfg, nil
}

// newParser constructs a parser with the settings from c.
func (c config) newParser() *jpush.Parser {
	p := jpush.NewParser()
	p.AllowComments(c.Comments)
	p.AllowTrailingCommas(c.TrailingCommas)
	p.AllowInvalidUTF8(c.InvalidUTF8)
	p.AllowTrailingGarbage(c.TrailingGarbage)
	p.AllowMultipleValues(c.Multiple)
	p.AllowPartialValues(c.Partial)
	p.LimitDepth(c.MaxDepth)
	return p
}
