package gherkin

import (
	"strings"
)

// Catalog is the flat view of a parsed file kept in the database.
type Catalog struct {
	Name    string
	Entries []Entry
}

// Entry represents a single Example of a Feature.
type Entry struct {
	Position int    // index into Feature.Examples()
	Rule     string // Rule title, empty for the implicit Rule
	Name     string // Example title, placeholders already substituted
	Tags     []string
	Line     int
}

// Transform flattens a Feature into catalogue entries.
func Transform(f *Feature, filename string) *Catalog {
	c := &Catalog{Name: f.Name()}
	if c.Name == "" {
		c.Name = filenameWithoutExt(filename)
	}

	pos := 0
	for _, r := range f.Rules {
		ruleName := ""
		if !r.Implicit {
			ruleName = Title(r.Heading)
		}
		for _, ex := range r.Examples {
			c.Entries = append(c.Entries, Entry{
				Position: pos,
				Rule:     ruleName,
				Name:     Title(ex.Heading),
				Tags:     ex.Tags,
				Line:     ex.Line,
			})
			pos++
		}
	}
	return c
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
