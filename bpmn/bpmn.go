// Package bpmn reads process-definition documents and extracts the pieces
// the client needs: the BPMN process id for deploy deduplication and the
// service-task types for worker registration. It is deliberately not a
// validator — the broker owns definition validation.
package bpmn

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoProcessID is returned when a document contains no process element
// with an id attribute.
var ErrNoProcessID = errors.New("bpmn: no process id found")

// Document is one process-definition file read from disk.
type Document struct {
	// Name is the base name of the source file.
	Name string
	// Data is the raw XML.
	Data []byte
}

// Parse reads the given files into Documents. It fails on the first
// unreadable path.
func Parse(paths ...string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("bpmn: read %s: %w", path, err)
		}
		docs = append(docs, Document{Name: filepath.Base(path), Data: data})
	}
	return docs, nil
}

// ProcessID returns the id attribute of the first process element in the
// document. Namespace prefixes are ignored; only the local element name
// matters.
func (d Document) ProcessID() (string, error) {
	dec := xml.NewDecoder(strings.NewReader(string(d.Data)))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "process" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "id" {
				return attr.Value, nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoProcessID, d.Name)
}

// TaskTypes returns the distinct service-task types declared across the
// documents, in first-seen order. A task type is the type attribute of a
// taskDefinition element.
func TaskTypes(docs []Document) []string {
	var types []string
	for _, d := range docs {
		dec := xml.NewDecoder(strings.NewReader(string(d.Data)))
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			start, ok := tok.(xml.StartElement)
			if !ok || start.Name.Local != "taskDefinition" {
				continue
			}
			for _, attr := range start.Attr {
				if attr.Name.Local == "type" && attr.Value != "" {
					if !slices.Contains(types, attr.Value) {
						types = append(types, attr.Value)
					}
				}
			}
		}
	}
	return types
}
