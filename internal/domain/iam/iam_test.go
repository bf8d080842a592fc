package iam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

func TestManagedPolicyARN(t *testing.T) {
	policy := AWSManagedPolicy("ViewOnlyAccess")

	assert.Equal(t, "ViewOnlyAccess", policy.Name())
	assert.Equal(t, "arn:aws-cn:iam::aws:policy/ViewOnlyAccess", policy.ARN("aws-cn"))
	assert.Equal(t,
		cfn.Join("", "arn:", cfn.Ref("AWS::Partition"), ":iam::aws:policy/ViewOnlyAccess"),
		policy.ARN(""),
	)
	assert.Equal(t, "arn:${AWS::Partition}:iam::aws:policy/ViewOnlyAccess", policy.ARNTemplate(""))
	assert.Equal(t, "arn:aws:iam::aws:policy/ViewOnlyAccess", policy.ARNTemplate("aws"))
}

func TestCreatedRoleRendersPoliciesInOrder(t *testing.T) {
	stack := construct.NewStack("stack", construct.WithPartition("aws"))
	role, err := NewRole(stack, "role", RoleProps{
		AssumedBy:       ServiceEC2,
		ManagedPolicies: []ManagedPolicy{AWSManagedPolicy("ViewOnlyAccess")},
		InlinePolicies: map[string]cfn.PolicyDocument{
			"b": cfn.NewPolicyDocument(cfn.PolicyStatement{Action: "s3:GetObject", Effect: "Allow", Resource: "*"}),
			"a": cfn.NewPolicyDocument(cfn.PolicyStatement{Action: "ec2:Describe*", Effect: "Allow", Resource: "*"}),
		},
	})
	require.NoError(t, err)
	role.AddManagedPolicy(AWSManagedPolicy("AmazonSSMManagedEC2InstanceDefaultPolicy"))
	role.AddManagedPolicy(AWSManagedPolicy("ViewOnlyAccess"))

	tpl, err := stack.Synth()
	require.NoError(t, err)

	res := tpl.Resources["role"]
	assert.Equal(t, cfn.TypeIAMRole, res.Type)
	props := res.Properties.(cfn.RoleProperties)
	assert.Equal(t, []any{
		"arn:aws:iam::aws:policy/ViewOnlyAccess",
		"arn:aws:iam::aws:policy/AmazonSSMManagedEC2InstanceDefaultPolicy",
	}, props.ManagedPolicyArns)
	assert.Equal(t, cfn.AssumeRoleStatement(ServiceEC2), props.AssumeRolePolicyDocument.Statement[0])
	require.Len(t, props.Policies, 2)
	assert.Equal(t, "a", props.Policies[0].PolicyName)
	assert.Equal(t, "b", props.Policies[1].PolicyName)

	assert.Equal(t, cfn.Ref("role"), role.RoleName())
	assert.Equal(t, cfn.GetAtt("role", "Arn"), role.RoleARN())
	assert.Len(t, role.ManagedPolicies(), 2)
}

func TestNewRoleRequiresPrincipal(t *testing.T) {
	_, err := NewRole(construct.NewStack("stack"), "role", RoleProps{})
	assert.Error(t, err)
}

func TestImportedRoles(t *testing.T) {
	byName := RoleFromName("ssm-instance")
	assert.Equal(t, "ssm-instance", byName.RoleName())
	assert.Equal(t, cfn.Sub("arn:${AWS::Partition}:iam::${AWS::AccountId}:role/ssm-instance"), byName.RoleARN())

	byARN, err := RoleFromARN("arn:aws:iam::123456789012:role/service/ssm-instance")
	require.NoError(t, err)
	assert.Equal(t, "ssm-instance", byARN.Name())
	assert.Equal(t, "arn:aws:iam::123456789012:role/service/ssm-instance", byARN.RoleARN())

	byARN.AddManagedPolicy(AWSManagedPolicy("ViewOnlyAccess"))

	_, err = RoleFromARN("not-an-arn")
	assert.ErrorIs(t, err, ErrInvalidRoleARN)
	_, err = RoleFromARN("arn:aws:iam::123456789012:user/alice")
	assert.ErrorIs(t, err, ErrInvalidRoleARN)
}

func TestInstanceProfile(t *testing.T) {
	stack := construct.NewStack("stack")
	role := RoleFromName("ssm-instance")
	profile, err := NewInstanceProfile(stack, "profile", role)
	require.NoError(t, err)
	assert.Same(t, role, profile.Role())

	tpl, err := stack.Synth()
	require.NoError(t, err)

	res := tpl.Resources[profile.Resource().LogicalID()]
	assert.Equal(t, cfn.TypeIAMInstanceProfile, res.Type)
	assert.Equal(t, cfn.InstanceProfileProperties{Roles: []any{"ssm-instance"}}, res.Properties)
}
