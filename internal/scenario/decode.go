package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category names as they appear in the input mapping.
const (
	CategoryObjects      = "objects"
	CategoryEnvironments = "environments"
	CategoryMotions      = "motions"
	CategoryInteractions = "interactions"
	CategoryForces       = "forces"
	CategoryFields       = "fields"
	CategoryMaterials    = "materials"
)

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario from JSON or YAML, unwrapping a markdown code
// fence first. Missing categories decode to empty lists and a category
// that is not a list is ignored. Malformed records are kept as Unknown
// variants and listed in Issues.
func Parse(data []byte) (*Scenario, error) {
	data = StripCodeFence(data)
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	var top map[string]json.RawMessage
	if data[0] == '{' {
		if err := json.Unmarshal(data, &top); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	} else {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if doc == nil {
			return nil, ErrFormat
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if err := json.Unmarshal(js, &top); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	}
	return decode(top), nil
}

func decode(top map[string]json.RawMessage) *Scenario {
	sc := &Scenario{
		Objects:      []Object{},
		Environments: []Environment{},
		Motions:      []Motion{},
		Interactions: []Interaction{},
		Forces:       []Force{},
		Fields:       []Record{},
		Materials:    []Record{},
	}

	for i, raw := range records(top, CategoryObjects) {
		var o Object
		if err := json.Unmarshal(raw, &o); err != nil {
			sc.Issues = append(sc.Issues, &RecordError{Category: CategoryObjects, Index: i, Wrapped: err})
			continue
		}
		sc.Objects = append(sc.Objects, o)
	}

	for i, raw := range records(top, CategoryEnvironments) {
		tag := peekType(raw)
		env, err := decodeEnvironment(tag, raw)
		if err != nil {
			sc.Issues = append(sc.Issues, &RecordError{Category: CategoryEnvironments, Index: i, Tag: tag, Wrapped: err})
		}
		sc.Environments = append(sc.Environments, env)
	}

	for i, raw := range records(top, CategoryMotions) {
		tag := peekType(raw)
		m, err := decodeMotion(tag, raw)
		if err != nil {
			sc.Issues = append(sc.Issues, &RecordError{Category: CategoryMotions, Index: i, Tag: tag, Wrapped: err})
		}
		sc.Motions = append(sc.Motions, m)
	}

	for i, raw := range records(top, CategoryInteractions) {
		tag := peekType(raw)
		in, err := decodeInteraction(tag, raw)
		if err != nil {
			sc.Issues = append(sc.Issues, &RecordError{Category: CategoryInteractions, Index: i, Tag: tag, Wrapped: err})
		}
		sc.Interactions = append(sc.Interactions, in)
	}

	for i, raw := range records(top, CategoryForces) {
		var f Force
		if err := json.Unmarshal(raw, &f); err != nil {
			sc.Issues = append(sc.Issues, &RecordError{Category: CategoryForces, Index: i, Wrapped: err})
			continue
		}
		sc.Forces = append(sc.Forces, f)
	}

	for _, raw := range records(top, CategoryFields) {
		sc.Fields = append(sc.Fields, Record{Type: peekType(raw), Raw: raw})
	}
	for _, raw := range records(top, CategoryMaterials) {
		sc.Materials = append(sc.Materials, Record{Type: peekType(raw), Raw: raw})
	}
	return sc
}

// records returns the elements of a category list. A missing or non-list
// category yields nil.
func records(top map[string]json.RawMessage, category string) []json.RawMessage {
	raw, ok := top[category]
	if !ok {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func peekType(raw json.RawMessage) string {
	var head struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.Type
}

func peekID(raw json.RawMessage) string {
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.ID
}

// canonical folds a tag so that camelCase and snake_case spellings of the
// same variant compare equal.
func canonical(tag string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(tag)) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripCodeFence removes a surrounding markdown code fence, with or without
// a language hint, and any prose before or after it.
func StripCodeFence(data []byte) []byte {
	data = bytes.TrimSpace(data)
	open := bytes.Index(data, []byte("```"))
	if open < 0 {
		return data
	}
	body := data[open+3:]
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		return bytes.TrimSpace(bytes.Trim(body, "`"))
	}
	if end := bytes.LastIndex(body, []byte("```")); end >= 0 {
		body = body[:end]
	}
	return bytes.TrimSpace(body)
}
