// Package config loads and validates embedder-supplied overrides the core
// classifier does not decide for itself: extra reserved words for
// non-standard dialects, and the target ECMAScript edition that gates
// which edition-sensitive literal forms the lexer attempts (optional
// chaining and nullish coalescing from es2020, numeric separators from
// es2021).
//
// A bare lexer.Lexer/parser.Parser pair never needs a config.Options; this
// package exists for embedders that want one JSON document validated once
// at startup rather than a pile of ad hoc flags.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
)

//go:embed schema.json
var schemaJSON []byte

// Options is the validated result of Load: a target ECMAScript edition
// plus any embedder-added reserved words, ready to be consumed by
// lexer.WithConfig / parser.WithConfig.
type Options struct {
	Edition            string   `json:"edition"`
	ExtraReservedWords []string `json:"extraReservedWords"`
	ModuleMode         bool     `json:"moduleMode"`
}

// DefaultEdition is assumed when a document omits "edition".
const DefaultEdition = "es2015"

var compiledSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.json", strings.NewReader(string(schemaJSON))); err != nil {
		panic(fmt.Sprintf("config: embedded schema is invalid: %v", err))
	}
	s, err := compiler.Compile("config.json")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema failed to compile: %v", err))
	}
	compiledSchema = s
}

// Load parses and validates a JSON configuration document against the
// embedded schema, then normalizes it into Options.
func Load(data []byte) (Options, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Options{}, fmt.Errorf("config: invalid JSON: %w", err)
	}

	if err := compiledSchema.Validate(raw); err != nil {
		return Options{}, fmt.Errorf("config: schema validation failed: %w", err)
	}

	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	if opts.Edition == "" {
		opts.Edition = DefaultEdition
	}
	return opts, nil
}

// editionVersion normalizes an "esYYYY"-shaped edition string to the
// "vYYYY.0.0" form semver.Compare expects.
func editionVersion(edition string) string {
	year := strings.TrimPrefix(edition, "es")
	return "v" + year + ".0.0"
}

// AtLeast reports whether opts' configured edition is the same as or
// newer than want (itself an "esYYYY" string), so a feature gated on a
// minimum edition (optional chaining at es2020, numeric separators at
// es2021) can check eligibility with a single call.
func (o Options) AtLeast(want string) bool {
	return semver.Compare(editionVersion(o.Edition), editionVersion(want)) >= 0
}

// IsReserved reports whether word was added to the reserved set by this
// configuration, on top of the base ECMAScript keyword table.
func (o Options) IsReserved(word string) bool {
	for _, w := range o.ExtraReservedWords {
		if w == word {
			return true
		}
	}
	return false
}
