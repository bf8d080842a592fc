// Package cfn models the subset of an AWS CloudFormation template produced by the
// inventory constructs, and serializes it as JSON or YAML.
package cfn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the only template format version CloudFormation accepts.
const FormatVersion = "2010-09-09"

// MetadataPathKey is the resource metadata key holding the construct path.
const MetadataPathKey = "ssm-inventory:path"

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string              `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string              `json:"Description,omitempty" yaml:"Description,omitempty"`
	Resources                map[string]Resource `json:"Resources" yaml:"Resources"`
}

// Resource is a single entry of the Resources section.
type Resource struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties interface{}    `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
	Metadata   map[string]any `json:"Metadata,omitempty" yaml:"Metadata,omitempty"`
}

// NewTemplate creates an empty template.
func NewTemplate(description string) *Template {
	return &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              description,
		Resources:                map[string]Resource{},
	}
}

// JSON serializes the template with two-space indentation.
func (t *Template) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding template as JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// YAML serializes the template with two-space indentation.
func (t *Template) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("error encoding template as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error encoding template as YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// LogicalIDs returns the resource logical IDs in lexical order.
func (t *Template) LogicalIDs() []string {
	ids := make([]string, 0, len(t.Resources))
	for id := range t.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResourcesOfType returns the resources with the given type keyed by logical ID.
func (t *Template) ResourcesOfType(resourceType string) map[string]Resource {
	found := map[string]Resource{}
	for id, r := range t.Resources {
		if r.Type == resourceType {
			found[id] = r
		}
	}
	return found
}

// CountOfType returns how many resources of the given type the template holds.
func (t *Template) CountOfType(resourceType string) int {
	return len(t.ResourcesOfType(resourceType))
}

// Path returns the construct path recorded in the resource metadata, if any.
func (r Resource) Path() string {
	if r.Metadata == nil {
		return ""
	}
	path, _ := r.Metadata[MetadataPathKey].(string)
	return path
}
