package entity

// ManagedInstance is an EC2 instance read from a saved describe-instances output.
type ManagedInstance struct {
	ID       string            `json:"id"`
	State    string            `json:"state"`
	Platform string            `json:"platform"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// InstanceID returns the EC2 instance id.
func (i ManagedInstance) InstanceID() string {
	return i.ID
}

// Name returns the value of the Name tag, if any.
func (i ManagedInstance) Name() string {
	return i.Tags["Name"]
}
