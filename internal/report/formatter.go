// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"sort"
	"strings"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	NoColor     bool // Whether to disable colored output
	Verbose     bool // Whether to include singleton entries
	MergedOnly  bool // Whether to restrict output to actual merges
	SourceCount int  // Number of records before merging, for the summary line
}

// Formatter interface defines methods that all report formatters must implement
type Formatter interface {
	// Format renders the entries in the formatter's output format
	Format(entries []Entry, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetFormatHelp returns a usage string listing the available formats
func (r *Registry) GetFormatHelp() string {
	var sb strings.Builder
	sb.WriteString("Available output formats:\n")
	for _, name := range r.List() {
		f, _ := r.Get(name)
		sb.WriteString(fmt.Sprintf("  %-6s %s\n", name, f.Description()))
	}
	return sb.String()
}

// FilterEntries applies the option flags to the entry list.
func FilterEntries(entries []Entry, options FormatterOptions) []Entry {
	if !options.MergedOnly {
		return entries
	}
	var filtered []Entry
	for _, e := range entries {
		if e.GroupSize > 1 {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
