// Package iam provides the IAM building blocks used by the compliance rules: roles,
// AWS managed policy references and instance profiles.
package iam

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// Service principals.
const (
	ServiceEC2 = "ec2.amazonaws.com"
	ServiceSSM = "ssm.amazonaws.com"
)

// ErrInvalidRoleARN is returned when an ARN does not identify an IAM role.
var ErrInvalidRoleARN = errors.New("invalid IAM role ARN")

// ManagedPolicy references an AWS managed policy by name.
type ManagedPolicy struct {
	name string
}

// AWSManagedPolicy returns a reference to the AWS managed policy with the given name.
func AWSManagedPolicy(name string) ManagedPolicy {
	return ManagedPolicy{name: name}
}

// Name returns the policy name.
func (p ManagedPolicy) Name() string {
	return p.name
}

// ARN returns the policy ARN for the given partition. With an empty partition the
// ARN is an Fn::Join over the AWS::Partition pseudo parameter.
func (p ManagedPolicy) ARN(partition string) any {
	if partition != "" {
		return p.literalARN(partition)
	}
	return cfn.Join("", "arn:", cfn.Ref(cfn.PseudoPartition), ":iam::aws:policy/"+p.name)
}

// ARNTemplate returns the policy ARN in Fn::Sub syntax, or a literal ARN when the
// partition is known.
func (p ManagedPolicy) ARNTemplate(partition string) string {
	if partition != "" {
		return p.literalARN(partition)
	}
	return "arn:${" + cfn.PseudoPartition + "}:iam::aws:policy/" + p.name
}

func (p ManagedPolicy) literalARN(partition string) string {
	return arn.ARN{
		Partition: partition,
		Service:   "iam",
		AccountID: "aws",
		Resource:  "policy/" + p.name,
	}.String()
}

// Role is an IAM role that can be referenced from other resources.
type Role interface {
	// RoleName returns the name of the role as a template value.
	RoleName() any
	// RoleARN returns the ARN of the role as a template value.
	RoleARN() any
	// AddManagedPolicy attaches a managed policy. Imported roles ignore it.
	AddManagedPolicy(policy ManagedPolicy)
}

// RoleProps configures a new role.
type RoleProps struct {
	// AssumedBy is the service principal allowed to assume the role.
	AssumedBy       string
	Description     string
	ManagedPolicies []ManagedPolicy
	InlinePolicies  map[string]cfn.PolicyDocument
}

// CreatedRole is a role defined in the stack.
type CreatedRole struct {
	resource *construct.Resource
	props    RoleProps
	policies []ManagedPolicy
}

// NewRole registers an AWS::IAM::Role. Managed policies added after creation are
// rendered too, after the ones given in props.
func NewRole(scope construct.Construct, id string, props RoleProps) (*CreatedRole, error) {
	if props.AssumedBy == "" {
		return nil, fmt.Errorf("role %s: assumedBy principal is required", id)
	}
	role := &CreatedRole{props: props}
	role.policies = append(role.policies, props.ManagedPolicies...)

	res, err := construct.NewResource(scope, id, cfn.TypeIAMRole, construct.RenderFunc(role.render))
	if err != nil {
		return nil, err
	}
	role.resource = res
	return role, nil
}

// Node implements construct.Construct.
func (r *CreatedRole) Node() *construct.Node {
	return r.resource.Node()
}

// Resource returns the underlying template resource.
func (r *CreatedRole) Resource() *construct.Resource {
	return r.resource
}

// RoleName implements Role.
func (r *CreatedRole) RoleName() any {
	return r.resource.Ref()
}

// RoleARN implements Role.
func (r *CreatedRole) RoleARN() any {
	return r.resource.GetAtt("Arn")
}

// AddManagedPolicy implements Role. Adding a policy that is already attached is a
// no-op.
func (r *CreatedRole) AddManagedPolicy(policy ManagedPolicy) {
	for _, p := range r.policies {
		if p == policy {
			return
		}
	}
	r.policies = append(r.policies, policy)
}

// ManagedPolicies returns the attached policies in attachment order.
func (r *CreatedRole) ManagedPolicies() []ManagedPolicy {
	return append([]ManagedPolicy(nil), r.policies...)
}

func (r *CreatedRole) render() (any, error) {
	partition := r.resource.Node().Stack().Partition()

	props := cfn.RoleProperties{
		AssumeRolePolicyDocument: cfn.NewPolicyDocument(cfn.AssumeRoleStatement(r.props.AssumedBy)),
		Description:              r.props.Description,
	}
	for _, p := range r.policies {
		props.ManagedPolicyArns = append(props.ManagedPolicyArns, p.ARN(partition))
	}
	for _, name := range sortedKeys(r.props.InlinePolicies) {
		props.Policies = append(props.Policies, cfn.InlinePolicy{
			PolicyName:     name,
			PolicyDocument: r.props.InlinePolicies[name],
		})
	}
	return props, nil
}

// ImportedRole is a role that exists outside the stack.
type ImportedRole struct {
	name string
	arn  string
}

// RoleFromName references an existing role by name. The ARN is resolved in the
// deploying account.
func RoleFromName(name string) *ImportedRole {
	return &ImportedRole{name: name}
}

// RoleFromARN references an existing role by ARN.
func RoleFromARN(roleARN string) (*ImportedRole, error) {
	parsed, err := arn.Parse(roleARN)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoleARN, roleARN, err)
	}
	if parsed.Service != "iam" || !strings.HasPrefix(parsed.Resource, "role/") {
		return nil, fmt.Errorf("%w: %s is not a role", ErrInvalidRoleARN, roleARN)
	}
	// Paths are part of the resource ("role/path/to/name"); the name is the last segment.
	segments := strings.Split(parsed.Resource, "/")
	return &ImportedRole{name: segments[len(segments)-1], arn: roleARN}, nil
}

// Name returns the role name.
func (r *ImportedRole) Name() string {
	return r.name
}

// RoleName implements Role.
func (r *ImportedRole) RoleName() any {
	return r.name
}

// RoleARN implements Role.
func (r *ImportedRole) RoleARN() any {
	if r.arn != "" {
		return r.arn
	}
	return cfn.Sub("arn:${" + cfn.PseudoPartition + "}:iam::${" + cfn.PseudoAccountID + "}:role/" + r.name)
}

// AddManagedPolicy implements Role. Policies of roles managed elsewhere are left
// untouched.
func (r *ImportedRole) AddManagedPolicy(ManagedPolicy) {}

func sortedKeys(m map[string]cfn.PolicyDocument) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
