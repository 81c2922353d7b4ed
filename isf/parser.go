// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package isf

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// headerPattern matches the leading metadata comment block. The JSON object
// is captured lazily: the block ends at the first "}" that is immediately
// followed by the comment terminator.
var headerPattern = regexp.MustCompile(`(?s)^/\*\s*(\{.*?\})\s*\*/`)

// header mirrors the JSON metadata object. Unknown keys are ignored for
// forward compatibility with newer ISF revisions.
type header struct {
	ISFVsn      any             `json:"ISFVSN"`
	Vsn         any             `json:"VSN"`
	Description string          `json:"DESCRIPTION"`
	Credit      string          `json:"CREDIT"`
	Categories  []string        `json:"CATEGORIES"`
	Inputs      []inputHeader   `json:"INPUTS"`
	Passes      []passHeader    `json:"PASSES"`
	Imported    json.RawMessage `json:"IMPORTED"`
}

type inputHeader struct {
	Name     *string  `json:"NAME"`
	Type     *string  `json:"TYPE"`
	Label    string   `json:"LABEL"`
	Default  any      `json:"DEFAULT"`
	Min      any      `json:"MIN"`
	Max      any      `json:"MAX"`
	Identity any      `json:"IDENTITY"`
	Values   []int64  `json:"VALUES"`
	Labels   []string `json:"LABELS"`
}

type passHeader struct {
	Target      string `json:"TARGET"`
	Persistent  any    `json:"PERSISTENT"`
	Float       any    `json:"FLOAT"`
	Width       any    `json:"WIDTH"`
	Height      any    `json:"HEIGHT"`
	Description string `json:"DESCRIPTION"`
	Name        string `json:"NAME"`
	Main        string `json:"MAIN"`
}

// Parse extracts the metadata header and shader body from ISF source text.
//
// The text must begin with a /* { ... } */ comment holding a JSON object;
// otherwise a *MalformedHeaderError is returned. A present but undecodable
// header yields a *InvalidMetadataError. The returned Shader's Body is
// everything after the comment block with surrounding whitespace trimmed.
func Parse(src string) (*Shader, error) {
	loc := headerPattern.FindStringSubmatchIndex(src)
	if loc == nil {
		return nil, &MalformedHeaderError{
			Reason: "no JSON metadata comment block at start of file (expected /* { ... } */)",
		}
	}

	jsonText := src[loc[2]:loc[3]]

	var h header
	if err := json.Unmarshal([]byte(jsonText), &h); err != nil {
		return nil, &InvalidMetadataError{Reason: "cannot decode header JSON", Err: err}
	}

	s := &Shader{
		ISFVsn:      versionString(h.ISFVsn, "2"),
		Vsn:         versionString(h.Vsn, ""),
		Description: h.Description,
		Credit:      h.Credit,
		Categories:  h.Categories,
		Body:        strings.TrimSpace(src[loc[1]:]),
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}

	for i, in := range h.Inputs {
		if in.Name == nil || *in.Name == "" {
			return nil, &InvalidMetadataError{Reason: fmt.Sprintf("INPUTS[%d] has no NAME", i)}
		}
		if in.Type == nil || *in.Type == "" {
			return nil, &InvalidMetadataError{Reason: fmt.Sprintf("input %q has no TYPE", *in.Name)}
		}
		s.Inputs = append(s.Inputs, Input{
			Name:     *in.Name,
			Type:     *in.Type,
			Label:    in.Label,
			Default:  in.Default,
			Min:      in.Min,
			Max:      in.Max,
			Identity: in.Identity,
			Values:   in.Values,
			Labels:   in.Labels,
		})
	}

	for _, p := range h.Passes {
		s.Passes = append(s.Passes, Pass{
			Target:         p.Target,
			Persistent:     truthy(p.Persistent),
			FloatPrecision: truthy(p.Float),
			Width:          dimensionString(p.Width),
			Height:         dimensionString(p.Height),
			Description:    p.Description,
			Name:           p.Name,
			Main:           p.Main,
		})
	}

	if imports, err := parseImported(h.Imported); err != nil {
		return nil, err
	} else {
		s.Imported = imports
	}

	return s, nil
}

// parseImported handles the two shapes the IMPORTED key appears in: an object
// mapping names to {"PATH": ...} entries (or bare path strings), or an array,
// which is rare, usually empty, and ignored.
func parseImported(raw json.RawMessage) ([]Import, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, nil
	}

	var table map[string]json.RawMessage
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, &InvalidMetadataError{Reason: "cannot decode IMPORTED table", Err: err}
	}

	// Sort names so the import order is stable across runs.
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	imports := make([]Import, 0, len(names))
	for _, name := range names {
		entry := table[name]
		var obj struct {
			Path string `json:"PATH"`
		}
		if err := json.Unmarshal(entry, &obj); err == nil && obj.Path != "" {
			imports = append(imports, Import{Name: name, Path: obj.Path})
			continue
		}
		var path string
		if err := json.Unmarshal(entry, &path); err == nil {
			imports = append(imports, Import{Name: name, Path: path})
			continue
		}
		imports = append(imports, Import{Name: name})
	}
	return imports, nil
}

// versionString normalizes a version tag that may appear as a JSON string or
// number.
func versionString(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fallback
	}
}

// dimensionString keeps a WIDTH/HEIGHT value in its textual form; numeric
// literals are formatted back to decimal so the expression evaluator sees a
// uniform representation.
func dimensionString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// truthy interprets the loose boolean encodings seen in ISF headers in the
// wild: true, 1, 1.0, "true", "1".
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "true" || t == "1"
	default:
		return false
	}
}
