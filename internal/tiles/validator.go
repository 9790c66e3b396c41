// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/pkg/pom"
)

// Smell kinds: normally forbidden tile constructs that can be allowed explicitly.
const (
	SmellDependencies         Smell = "dependencies"
	SmellDependencyManagement Smell = "dependencymanagement"
	SmellRepositories         Smell = "repositories"
	SmellPluginRepositories   Smell = "pluginrepositories"
	SmellPluginManagement     Smell = "pluginmanagement"
)

type (
	// Smell is a construct a tile may only contain when explicitly allowed.
	Smell string

	// Smells is a set of allowed smells.
	Smells []Smell

	// ValidationResult is the outcome of Validate. Model is nil when any problem was found.
	ValidationResult struct {
		Model    *pom.Model
		Problems []string
	}
)

// AllSmells lists every supported smell.
var AllSmells = Smells{
	SmellDependencies,
	SmellDependencyManagement,
	SmellPluginRepositories,
	SmellPluginManagement,
	SmellRepositories,
}

// ParseSmells parses a comma-separated smell list. Tokens are trimmed and matched without
// regard to case; empty tokens are ignored. Any unsupported token fails the whole list.
func ParseSmells(csv string) (Smells, error) {
	var (
		out     Smells
		unknown []string
	)
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		s := Smell(strings.ToLower(tok))
		if !slices.Contains(AllSmells, s) {
			unknown = append(unknown, tok)
			continue
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	if len(unknown) > 0 {
		return nil, &UnknownSmellError{Smells: unknown}
	}
	return out, nil
}

// Allows reports whether s is in the set.
func (s Smells) Allows(smell Smell) bool {
	return slices.Contains(s, smell)
}

// Valid reports whether no problem was found.
func (r ValidationResult) Valid() bool {
	return r.Model != nil
}

// Validate checks that m only uses constructs safe for composition. Every problem is
// logged at error level and collected; checking continues after a failure.
func Validate(m *pom.Model, allowed Smells, logger *log.Logger) ValidationResult {
	logger = orDiscard(logger)
	var problems []string
	fail := func(msg string) {
		logger.Error(msg)
		problems = append(problems, msg)
	}

	if m.GroupID != "" {
		fail("Tile has a groupId and must not have")
	}
	if m.ArtifactID != "" {
		fail("Tile has an artifactId and must not have")
	}
	if m.Version != "" {
		fail("Tile has a version and must not have")
	}
	if m.Parent != nil {
		fail("Tile has a parent and must not have")
	}
	if len(m.Repositories) > 0 && !allowed.Allows(SmellRepositories) {
		fail("Tile follows bad practice and has repositories section. Please use settings.xml.")
	}
	if len(m.PluginRepositories) > 0 && !allowed.Allows(SmellPluginRepositories) {
		fail("Tile follows bad practice and has pluginRepositories section. Please use settings.xml.")
	}
	if m.DependencyManagement != nil && !allowed.Allows(SmellDependencyManagement) {
		fail("Tile follows bad practice and has dependencyManagement. Please use composites.")
	}
	if m.Build != nil && m.Build.PluginManagement != nil && !allowed.Allows(SmellPluginManagement) {
		fail("Plugin management is usually not required, if you want a plugin to always run, use plugins instead.")
	}
	if len(m.Dependencies) > 0 && !allowed.Allows(SmellDependencies) {
		fail("Tile includes dependencies - this will prevent consumers from adding exclusions, use composites instead.")
	}
	if m.Build != nil && len(m.Build.Extensions) > 0 {
		fail("Tile has extensions and must not have")
	}
	if m.Build != nil && slices.ContainsFunc(m.Build.Plugins, func(p pom.Plugin) bool { return p.Extensions != "" }) {
		fail("Tile has plugins with extensions and must not have")
	}

	if len(problems) > 0 {
		return ValidationResult{Problems: problems}
	}
	return ValidationResult{Model: m}
}

// ValidateTileFile loads the tile file at path and validates it against the smells in
// csv. Unknown smells fail before the file is read.
func ValidateTileFile(path, csv string, logger *log.Logger) (*pom.Model, error) {
	logger = orDiscard(logger)
	allowed, err := ParseSmells(csv)
	if err != nil {
		return nil, fmt.Errorf("bad smell configuration <buildSmells>%s</buildSmells> for %s: %w", csv, path, err)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("Unable to find tile", "file", path)
			return nil, &ValidationError{File: path, Problems: []string{"tile file does not exist"}}
		}
		return nil, err
	}

	t, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &ValidationError{File: path, Problems: []string{"file is not a project descriptor"}}
	}

	res := Validate(t.Model, allowed, logger)
	if !res.Valid() {
		return nil, &ValidationError{File: path, Problems: res.Problems}
	}
	logger.Info("Tile passes basic validation.")
	return res.Model, nil
}
