package cfn

// IAM resource types.
const (
	TypeIAMRole            = "AWS::IAM::Role"
	TypeIAMInstanceProfile = "AWS::IAM::InstanceProfile"
)

// PolicyVersion is the IAM policy language version.
const PolicyVersion = "2012-10-17"

// PolicyDocument is an IAM policy document.
type PolicyDocument struct {
	Statement []PolicyStatement `json:"Statement" yaml:"Statement"`
	Version   string            `json:"Version" yaml:"Version"`
}

// PolicyStatement is one statement of a policy document. Action and Resource hold
// either a single value or a list, as IAM accepts both.
type PolicyStatement struct {
	Action    any            `json:"Action" yaml:"Action"`
	Effect    string         `json:"Effect" yaml:"Effect"`
	Principal map[string]any `json:"Principal,omitempty" yaml:"Principal,omitempty"`
	Resource  any            `json:"Resource,omitempty" yaml:"Resource,omitempty"`
}

// InlinePolicy is an entry of a role's Policies list.
type InlinePolicy struct {
	PolicyDocument PolicyDocument `json:"PolicyDocument" yaml:"PolicyDocument"`
	PolicyName     string         `json:"PolicyName" yaml:"PolicyName"`
}

// RoleProperties are the properties of an AWS::IAM::Role.
type RoleProperties struct {
	AssumeRolePolicyDocument PolicyDocument `json:"AssumeRolePolicyDocument" yaml:"AssumeRolePolicyDocument"`
	Description              string         `json:"Description,omitempty" yaml:"Description,omitempty"`
	ManagedPolicyArns        []any          `json:"ManagedPolicyArns,omitempty" yaml:"ManagedPolicyArns,omitempty"`
	Policies                 []InlinePolicy `json:"Policies,omitempty" yaml:"Policies,omitempty"`
}

// InstanceProfileProperties are the properties of an AWS::IAM::InstanceProfile.
type InstanceProfileProperties struct {
	Roles []any `json:"Roles" yaml:"Roles"`
}

// NewPolicyDocument builds a policy document from statements.
func NewPolicyDocument(statements ...PolicyStatement) PolicyDocument {
	return PolicyDocument{Statement: statements, Version: PolicyVersion}
}

// AssumeRoleStatement allows the given service principal to assume a role.
func AssumeRoleStatement(service string) PolicyStatement {
	return PolicyStatement{
		Action:    "sts:AssumeRole",
		Effect:    "Allow",
		Principal: map[string]any{"Service": service},
	}
}
