// Package source adapts external trace formats into the tracegraph
// package's input shape. It is a pluggable collaborator, not part of the
// core (spec.md §1 "Out of scope ... the line-by-line regular-expression
// trace parser"): the core only ever consumes []tracegraph.Trace.
package source

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// LineParser splits a stream of log lines into traces by regular
// expression, grounded on
// original_source/.../model/input/ReverseTracertParser.java: a blank
// line or a line matching the separator pattern starts a new trace, and
// every other non-blank line is matched against pattern to extract an
// event type label.
type LineParser struct {
	event     *regexp.Regexp
	separator *regexp.Regexp
	interner  *event.Interner
}

// NewLineParser builds a LineParser. eventPattern must have a capture
// group named "type" yielding the event type label; separatorPattern
// may be empty, in which case only blank lines split traces.
func NewLineParser(eventPattern, separatorPattern string) (*LineParser, error) {
	re, err := regexp.Compile(eventPattern)
	if err != nil {
		return nil, fmt.Errorf("source: compiling event pattern: %w", err)
	}
	if re.SubexpIndex("type") < 0 {
		return nil, fmt.Errorf("source: event pattern must have a named group \"type\"")
	}

	var sep *regexp.Regexp
	if separatorPattern != "" {
		sep, err = regexp.Compile(separatorPattern)
		if err != nil {
			return nil, fmt.Errorf("source: compiling separator pattern: %w", err)
		}
	}

	return &LineParser{event: re, separator: sep, interner: event.NewInterner()}, nil
}

// UnmatchedLineError is returned when a non-blank, non-separator line
// fails to match the event pattern.
type UnmatchedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *UnmatchedLineError) Error() string {
	return fmt.Sprintf("source: line %d %q: %s", e.Line, e.Text, e.Reason)
}

// Parse reads r and returns one tracegraph.Trace per run of matched
// lines between separators. Every matched event carries its source line
// number as Metadata, for diagnostics.
func (p *LineParser) Parse(r io.Reader) ([]tracegraph.Trace, error) {
	scanner := bufio.NewScanner(r)

	var traces []tracegraph.Trace
	var cur []event.Event
	lineNo := 0

	flush := func() {
		if len(cur) > 0 {
			traces = append(traces, tracegraph.Trace{Events: cur})
			cur = nil
		}
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if line == "" || (p.separator != nil && p.separator.MatchString(line)) {
			flush()
			continue
		}

		m := p.event.FindStringSubmatch(line)
		if m == nil {
			return nil, &UnmatchedLineError{Line: lineNo, Text: line, Reason: "does not match event pattern"}
		}
		label := m[p.event.SubexpIndex("type")]
		if label == "" {
			return nil, &UnmatchedLineError{Line: lineNo, Text: line, Reason: "matched empty event type"}
		}

		cur = append(cur, event.New(p.interner.Domain(label), event.Metadata{SourceLine: lineNo, Raw: line}))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("source: scanning input: %w", err)
	}
	flush()

	return traces, nil
}
