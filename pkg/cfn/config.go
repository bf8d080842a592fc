package cfn

// AWS Config resource types.
const (
	TypeConfigRule               = "AWS::Config::ConfigRule"
	TypeRemediationConfiguration = "AWS::Config::RemediationConfiguration"
)

// Config rule source owners.
const (
	OwnerAWS          = "AWS"
	OwnerCustomPolicy = "CUSTOM_POLICY"
)

// RemediationTargetSSMDocument is the only remediation target type AWS Config supports.
const RemediationTargetSSMDocument = "SSM_DOCUMENT"

// ResourceIDPlaceholder binds a remediation parameter to the non-compliant resource id.
const ResourceIDPlaceholder = "RESOURCE_ID"

// ConfigRuleProperties are the properties of an AWS::Config::ConfigRule.
type ConfigRuleProperties struct {
	Description string           `json:"Description,omitempty" yaml:"Description,omitempty"`
	Scope       *ConfigRuleScope `json:"Scope,omitempty" yaml:"Scope,omitempty"`
	Source      ConfigRuleSource `json:"Source" yaml:"Source"`
}

// ConfigRuleScope restricts the resources a rule evaluates.
type ConfigRuleScope struct {
	ComplianceResourceTypes []string `json:"ComplianceResourceTypes,omitempty" yaml:"ComplianceResourceTypes,omitempty"`
}

// ConfigRuleSource identifies the evaluation logic of a rule.
type ConfigRuleSource struct {
	CustomPolicyDetails *CustomPolicyDetails `json:"CustomPolicyDetails,omitempty" yaml:"CustomPolicyDetails,omitempty"`
	Owner               string               `json:"Owner" yaml:"Owner"`
	SourceDetails       []SourceDetail       `json:"SourceDetails,omitempty" yaml:"SourceDetails,omitempty"`
	SourceIdentifier    string               `json:"SourceIdentifier,omitempty" yaml:"SourceIdentifier,omitempty"`
}

// SourceDetail selects the events that trigger a custom rule.
type SourceDetail struct {
	EventSource string `json:"EventSource" yaml:"EventSource"`
	MessageType string `json:"MessageType" yaml:"MessageType"`
}

// CustomPolicyDetails holds a Guard policy evaluated by AWS Config.
type CustomPolicyDetails struct {
	EnableDebugLogDelivery bool   `json:"EnableDebugLogDelivery" yaml:"EnableDebugLogDelivery"`
	PolicyRuntime          string `json:"PolicyRuntime" yaml:"PolicyRuntime"`
	PolicyText             any    `json:"PolicyText" yaml:"PolicyText"`
}

// RemediationConfigurationProperties are the properties of an
// AWS::Config::RemediationConfiguration.
type RemediationConfigurationProperties struct {
	Automatic                bool                                 `json:"Automatic" yaml:"Automatic"`
	ConfigRuleName           any                                  `json:"ConfigRuleName" yaml:"ConfigRuleName"`
	MaximumAutomaticAttempts int                                  `json:"MaximumAutomaticAttempts,omitempty" yaml:"MaximumAutomaticAttempts,omitempty"`
	Parameters               map[string]RemediationParameterValue `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	RetryAttemptSeconds      int                                  `json:"RetryAttemptSeconds,omitempty" yaml:"RetryAttemptSeconds,omitempty"`
	TargetID                 any                                  `json:"TargetId" yaml:"TargetId"`
	TargetType               string                               `json:"TargetType" yaml:"TargetType"`
}

// RemediationParameterValue binds a remediation document parameter either to the
// evaluated resource or to static values.
type RemediationParameterValue struct {
	ResourceValue *ResourceValue `json:"ResourceValue,omitempty" yaml:"ResourceValue,omitempty"`
	StaticValue   *StaticValue   `json:"StaticValue,omitempty" yaml:"StaticValue,omitempty"`
}

// ResourceValue binds a parameter to a property of the evaluated resource.
type ResourceValue struct {
	Value string `json:"Value" yaml:"Value"`
}

// StaticValue binds a parameter to fixed values.
type StaticValue struct {
	Values []any `json:"Values" yaml:"Values"`
}

// ResourceIDParameter binds a remediation parameter to the non-compliant resource id.
func ResourceIDParameter() RemediationParameterValue {
	return RemediationParameterValue{ResourceValue: &ResourceValue{Value: ResourceIDPlaceholder}}
}

// StaticParameter binds a remediation parameter to the given values.
func StaticParameter(values ...any) RemediationParameterValue {
	return RemediationParameterValue{StaticValue: &StaticValue{Values: values}}
}
