// Package config provides configuration types for the translation core.
//
// Config-bearing values implement the Source capability: a single
// ToMapping method that renders the configuration as a plain map. Core
// components accept a Source instead of probing value shapes
// reflectively, so a map literal, a tagged struct, and a YAML file are
// interchangeable at construction time.
//
//	src := config.NewStructSource(cfg)
//	m, err := src.ToMapping()
//
// Typed configuration structs carry yaml and json tags, provide
// Default* constructors, and validate themselves with Validate().
package config
