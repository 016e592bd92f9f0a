package koanf

import (
	"log"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Provide reads configuration with koanf.
// def contains the default values, prefix filters the environment variables.
func Provide[T interface{}](prefix string, def T) T {
	k := koanf.New(".")

	var instance T

	// load default configuration from default function
	if err := k.Load(structs.Provider(def, "koanf"), nil); err != nil {
		log.Fatalf("error loading default: %s", err)
	}

	// load configuration from file
	if err := k.Load(file.Provider("config.toml"), toml.Parser()); err != nil {
		log.Printf("error loading config.toml: %s", err)
	}

	// load environment variables
	envPrefix := ""
	if prefix != "" {
		envPrefix = strings.ToUpper(prefix) + "_"
	}
	if err := k.Load(
		// replace __ with . in environment variables so you can reference field a in struct b
		// as a__b.
		env.Provider(envPrefix, ".", func(source string) string {
			base := strings.ToLower(strings.TrimPrefix(source, envPrefix))

			return strings.ReplaceAll(base, "__", ".")
		}),
		nil,
	); err != nil {
		log.Printf("error loading environment variables: %s", err)
	}

	if err := k.Unmarshal("", &instance); err != nil {
		log.Fatalf("error un-marshalling config: %s", err)
	}

	return instance
}
