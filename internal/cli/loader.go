package cli

import (
	"fmt"
	"os"

	"github.com/fsminfer/fsminfer/internal/config"
	"github.com/fsminfer/fsminfer/internal/source"
	"github.com/fsminfer/fsminfer/internal/source/sqlite"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// InputOptions captures the flags every mining command shares for reading
// trace input, mirroring the Java CLI's input-selection surface
// (-r relation flag, input file) but as a Go option struct rather than
// positional argv parsing.
type InputOptions struct {
	Path         string   // "-" or empty means stdin
	SQLiteDB     string   // when set, read from this SQLite database instead
	EventPattern string   // regex with a named "type" group
	SeparatorRE  string   // regex that splits traces; empty means blank-line only
	Relations    []string // declared auxiliary relation names to keep
}

// DefaultEventPattern matches a line as a single event-type token. Callers
// with richer log formats should supply their own --event-pattern.
const DefaultEventPattern = `^(?P<type>\S+)`

// LoadTraces resolves an InputOptions into parsed traces, choosing between
// the SQLite adapter and the line parser the way the Java main.Main chose
// between its input readers based on argv.
func LoadTraces(opts InputOptions) ([]tracegraph.Trace, error) {
	if opts.SQLiteDB != "" {
		db, err := sqlite.Open(opts.SQLiteDB)
		if err != nil {
			return nil, fmt.Errorf("cli: opening sqlite input: %w", err)
		}
		defer db.Close()
		traces, err := sqlite.ReadTraces(db)
		if err != nil {
			return nil, fmt.Errorf("cli: reading sqlite input: %w", err)
		}
		return filterRelations(traces, opts.Relations), nil
	}

	pattern := opts.EventPattern
	if pattern == "" {
		pattern = DefaultEventPattern
	}
	parser, err := source.NewLineParser(pattern, opts.SeparatorRE)
	if err != nil {
		return nil, fmt.Errorf("cli: building line parser: %w", err)
	}

	r, closeFn, err := openInput(opts.Path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	traces, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("cli: parsing input: %w", err)
	}
	return filterRelations(traces, opts.Relations), nil
}

func openInput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cli: opening input %s: %w", path, err)
	}
	return f, f.Close, nil
}

// filterRelations drops any AuxRelations entry not named in relations. An
// empty relations list keeps every relation a source produced.
func filterRelations(traces []tracegraph.Trace, relations []string) []tracegraph.Trace {
	if len(relations) == 0 {
		return traces
	}
	keep := make(map[tracegraph.Relation]bool, len(relations))
	for _, r := range relations {
		keep[tracegraph.Relation(r)] = true
	}
	for i := range traces {
		if traces[i].AuxRelations == nil {
			continue
		}
		filtered := make(map[tracegraph.Relation][]int, len(traces[i].AuxRelations))
		for rel, idx := range traces[i].AuxRelations {
			if keep[rel] {
				filtered[rel] = idx
			}
		}
		traces[i].AuxRelations = filtered
	}
	return traces
}

// LoadConfig resolves a --config flag into a Config, falling back to
// defaults when no path was given.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cli: loading config %s: %w", path, err)
	}
	return cfg, nil
}
