package entity

// ResourceSummary describes one synthesized resource.
type ResourceSummary struct {
	LogicalID string `json:"logical_id"`
	Type      string `json:"type"`
	Path      string `json:"path"`
}

// SynthResult represents the outcome of synthesizing one stack.
type SynthResult struct {
	StackName   string            `json:"stack_name"`
	Environment Environment       `json:"environment"`
	Resources   []ResourceSummary `json:"resources"`
	Files       []string          `json:"files"`
}
