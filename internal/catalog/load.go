package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML snapshot. Empty input yields an empty snapshot. The
// document must be a mapping using only snapshot keys.
func Parse(data []byte) (Snapshot, error) {
	empty := Snapshot{Shelves: []Shelf{}, Books: []Book{}}

	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return empty, nil
		}
		return Snapshot{}, fmt.Errorf("parsing snapshot YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return empty, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return empty, nil
	}
	if root.Kind != yaml.MappingNode {
		return Snapshot{}, fmt.Errorf("parsing snapshot YAML: line %d: expected a mapping", root.Line)
	}

	var snap Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot YAML: %w", err)
	}
	if snap.Shelves == nil {
		snap.Shelves = []Shelf{}
	}
	if snap.Books == nil {
		snap.Books = []Book{}
	}
	return snap, nil
}
