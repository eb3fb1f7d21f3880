// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package options implements the options processor (C8): turning a
// JSON option catalog into per-option HTML with priority-sorted
// grouping and source-location linking.
package options

import (
	"encoding/json"
	"fmt"
)

// RawOption is the JSON shape of one catalog entry (spec §4.8).
type RawOption struct {
	Type         string            `json:"type"`
	Description  string            `json:"description"`
	Default      json.RawMessage   `json:"default"`
	DefaultText  json.RawMessage   `json:"defaultText"`
	Example      json.RawMessage   `json:"example"`
	ExampleText  json.RawMessage   `json:"exampleText"`
	Declarations []json.RawMessage `json:"declarations"`
	ReadOnly     bool              `json:"readOnly"`
	Internal     bool              `json:"internal"`
	Visible      *bool             `json:"visible"`
	Loc          []string          `json:"loc"`
}

// Catalog is the decoded option JSON document: option name -> entry.
type Catalog map[string]RawOption

// LoadCatalog parses raw catalog JSON. A malformed catalog is a fatal
// parse error per spec §7 ("Parse of the options catalog is fatal").
func LoadCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing options catalog: %w", err)
	}
	return c, nil
}

// ValidOptionNames builds the valid-options set (spec §4.8 step 1):
// the catalog's top-level keys, handed to the Markdown extension layer
// before any description is rendered.
func (c Catalog) ValidOptionNames() map[string]struct{} {
	out := make(map[string]struct{}, len(c))
	for name := range c {
		out[name] = struct{}{}
	}
	return out
}
