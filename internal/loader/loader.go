// Package loader reads declarative check suites from a directory of YAML files.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/dqscore/core/engine"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/schema"
	"gopkg.in/yaml.v3"
)

// ErrMissingLabel is returned when a check definition has no meta.label.
var ErrMissingLabel = errors.New("check is missing meta.label")

// TypeChecker reports whether an expectation type can be executed.
type TypeChecker interface {
	Supports(expectationType string) bool
}

// LoadChecks reads every .yaml/.yml file in dir, in lexical order, as one suite.
// The suite name is the file stem. Files that are empty or not a YAML list are skipped.
// When types is non-nil, unknown expectation types abort loading.
func LoadChecks(dir string, types TypeChecker) ([]schema.Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading checks dir %s: %w", dir, err)
	}
	contract.Logger().Debug().Str("dir", dir).Msg("loading checks")

	var suites []schema.Suite
	for _, entry := range entries { // ReadDir sorts by filename
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		suite, ok, err := loadSuite(path, types)
		if err != nil {
			return nil, err
		}
		if !ok {
			contract.Logger().Debug().Str("file", path).Msg("skipping file without checks")
			continue
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// Counts returns the number of checks per suite name.
func Counts(suites []schema.Suite) map[string]int {
	counts := make(map[string]int, len(suites))
	for _, s := range suites {
		counts[s.Name] = len(s.Checks)
	}
	return counts
}

// Find returns the suite with the given name.
func Find(suites []schema.Suite, name string) (schema.Suite, bool) {
	idx := slices.IndexFunc(suites, func(s schema.Suite) bool { return s.Name == name })
	if idx < 0 {
		return schema.Suite{}, false
	}
	return suites[idx], true
}

func loadSuite(path string, types TypeChecker) (schema.Suite, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Suite{}, false, fmt.Errorf("reading check file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return schema.Suite{}, false, fmt.Errorf("parsing check file %s: %w", path, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode || len(doc.Content[0].Content) == 0 {
		return schema.Suite{}, false, nil
	}

	var defs []schema.CheckDefinition
	if err := doc.Content[0].Decode(&defs); err != nil {
		return schema.Suite{}, false, fmt.Errorf("decoding check file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	suite := schema.Suite{Name: name}
	positions := make(map[string]int, len(defs))
	for i, def := range defs {
		def.Suite = name
		if err := validate(def, types); err != nil {
			return schema.Suite{}, false, fmt.Errorf("%s check #%d: %w", path, i, err)
		}
		label := def.Label()
		if pos, dup := positions[label]; dup {
			contract.LogWarn(fmt.Sprintf("duplicate label %q in suite %s", label, name), errors.New("later definition replaces the earlier one"))
			suite.Checks[pos] = def
			continue
		}
		positions[label] = len(suite.Checks)
		suite.Checks = append(suite.Checks, def)
	}
	return suite, true, nil
}

func validate(def schema.CheckDefinition, types TypeChecker) error {
	if def.Label() == "" {
		return ErrMissingLabel
	}
	if def.ExpectationType == "" {
		return fmt.Errorf("%w: empty expectation_type for %s", engine.ErrUnknownExpectation, def.Label())
	}
	if types != nil && !types.Supports(def.ExpectationType) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownExpectation, def.ExpectationType)
	}
	if def.Severity != "" {
		if _, ok := schema.ValidSeverities[def.Severity]; !ok {
			return fmt.Errorf("invalid severity '%s'. must be critical, warning, info", def.Severity)
		}
	}
	return nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
