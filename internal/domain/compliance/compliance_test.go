package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/iam"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

func remediationsOf(t *testing.T, tpl *cfn.Template) []cfn.RemediationConfigurationProperties {
	t.Helper()
	var out []cfn.RemediationConfigurationProperties
	for _, res := range tpl.ResourcesOfType(cfn.TypeRemediationConfiguration) {
		props, ok := res.Properties.(cfn.RemediationConfigurationProperties)
		require.True(t, ok)
		out = append(out, props)
	}
	return out
}

func TestRequiredRoleRuleDefaults(t *testing.T) {
	stack := construct.NewStack("stack")
	rule, err := NewRequiredRoleRule(stack, "roles", RequiredRoleRuleProps{})
	require.NoError(t, err)

	tpl, err := stack.Synth()
	require.NoError(t, err)

	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeConfigRule))
	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeRemediationConfiguration))
	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeIAMInstanceProfile))
	assert.Equal(t, 2, tpl.CountOfType(cfn.TypeIAMRole))

	ruleProps := tpl.Resources[rule.Rule().LogicalID()].Properties.(cfn.ConfigRuleProperties)
	assert.Equal(t, cfn.OwnerAWS, ruleProps.Source.Owner)
	assert.Equal(t, InstanceProfileAttachedRule, ruleProps.Source.SourceIdentifier)
	assert.Equal(t, []string{"AWS::EC2::Instance"}, ruleProps.Scope.ComplianceResourceTypes)

	remediation := remediationsOf(t, tpl)[0]
	assert.False(t, remediation.Automatic)
	assert.Equal(t, AttachIAMToInstanceDocument, remediation.TargetID)
	assert.Equal(t, cfn.RemediationTargetSSMDocument, remediation.TargetType)
	assert.Equal(t, rule.Rule().Ref(), remediation.ConfigRuleName)
	assert.Equal(t, MaximumAutomaticAttempts, remediation.MaximumAutomaticAttempts)
	assert.Equal(t, cfn.ResourceIDParameter(), remediation.Parameters["InstanceId"])
	assert.Equal(t, cfn.StaticParameter(rule.DefaultRole().RoleName()), remediation.Parameters["RoleName"])
	assert.Contains(t, remediation.Parameters, "AutomationAssumeRole")

	created, ok := rule.DefaultRole().(*iam.CreatedRole)
	require.True(t, ok)
	roleProps := tpl.Resources[created.Resource().LogicalID()].Properties.(cfn.RoleProperties)
	assert.Equal(t, cfn.AssumeRoleStatement(iam.ServiceEC2), roleProps.AssumeRolePolicyDocument.Statement[0])

	remediationRes := tpl.Resources[rule.Remediation().LogicalID()]
	assert.Len(t, remediationRes.DependsOn, 1)
}

func TestRequiredRoleRuleWithSuppliedRole(t *testing.T) {
	stack := construct.NewStack("stack")
	role := iam.RoleFromName("existing")
	rule, err := NewRequiredRoleRule(stack, "roles", RequiredRoleRuleProps{
		Remediation: RoleRemediationOptions{
			RemediationOptions: RemediationOptions{Automatic: entity.Bool(true)},
			Role:               role,
		},
	})
	require.NoError(t, err)
	assert.Same(t, role, rule.DefaultRole())

	tpl, err := stack.Synth()
	require.NoError(t, err)

	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeIAMRole), "only the automation role is created")
	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeIAMInstanceProfile))
	remediation := remediationsOf(t, tpl)[0]
	assert.True(t, remediation.Automatic)
	assert.Equal(t, cfn.StaticParameter("existing"), remediation.Parameters["RoleName"])
}

func TestRequiredRoleRuleWithoutRemediation(t *testing.T) {
	stack := construct.NewStack("stack")
	rule, err := NewRequiredRoleRule(stack, "roles", RequiredRoleRuleProps{
		Remediation: RoleRemediationOptions{RemediationOptions: RemediationOptions{Enabled: entity.Bool(false)}},
	})
	require.NoError(t, err)

	tpl, err := stack.Synth()
	require.NoError(t, err)

	assert.Nil(t, rule.DefaultRole())
	assert.Nil(t, rule.Remediation())
	assert.Equal(t, []string{rule.Rule().LogicalID()}, tpl.LogicalIDs())
}

func TestRequiredPolicyRule(t *testing.T) {
	stack := construct.NewStack("stack")
	policy := iam.AWSManagedPolicy("AmazonSSMManagedEC2InstanceDefaultPolicy")
	rule, err := NewRequiredPolicyRule(stack, "policies", RequiredPolicyRuleProps{ManagedPolicy: &policy})
	require.NoError(t, err)
	assert.Equal(t, policy, rule.ManagedPolicy())

	tpl, err := stack.Synth()
	require.NoError(t, err)

	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeConfigRule))
	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeSSMDocument))
	assert.Equal(t, 1, tpl.CountOfType(cfn.TypeRemediationConfiguration))

	ruleProps := tpl.Resources[rule.Rule().LogicalID()].Properties.(cfn.ConfigRuleProperties)
	assert.Equal(t, cfn.OwnerCustomPolicy, ruleProps.Source.Owner)
	require.NotNil(t, ruleProps.Source.CustomPolicyDetails)
	assert.Equal(t, GuardRuntime, ruleProps.Source.CustomPolicyDetails.PolicyRuntime)

	sub, ok := ruleProps.Source.CustomPolicyDetails.PolicyText.(map[string]any)
	require.True(t, ok, "policy text is substituted when the partition is unknown")
	text := sub["Fn::Sub"].(string)
	assert.Contains(t, text, "arn:${AWS::Partition}:iam::aws:policy/AmazonSSMManagedEC2InstanceDefaultPolicy")

	remediation := remediationsOf(t, tpl)[0]
	assert.False(t, remediation.Automatic)
	assert.Equal(t, cfn.ResourceIDParameter(), remediation.Parameters["RoleId"])
	assert.Equal(t, cfn.StaticParameter(policy.ARN("")), remediation.Parameters["PolicyArn"])
}

func TestRequiredPolicyRuleWithKnownPartition(t *testing.T) {
	stack := construct.NewStack("stack", construct.WithPartition("aws-us-gov"))
	policy := iam.AWSManagedPolicy("X")
	rule, err := NewRequiredPolicyRule(stack, "policies", RequiredPolicyRuleProps{
		ManagedPolicy: &policy,
		Remediation:   PolicyRemediationOptions{RemediationOptions{Automatic: entity.Bool(true)}},
	})
	require.NoError(t, err)

	tpl, err := stack.Synth()
	require.NoError(t, err)

	ruleProps := tpl.Resources[rule.Rule().LogicalID()].Properties.(cfn.ConfigRuleProperties)
	text, ok := ruleProps.Source.CustomPolicyDetails.PolicyText.(string)
	require.True(t, ok)
	assert.True(t, strings.Contains(text, `"arn:aws-us-gov:iam::aws:policy/X"`), text)

	remediation := remediationsOf(t, tpl)[0]
	assert.True(t, remediation.Automatic)
	assert.Equal(t, cfn.StaticParameter("arn:aws-us-gov:iam::aws:policy/X"), remediation.Parameters["PolicyArn"])
}

func TestRequiredPolicyRuleWithoutRemediation(t *testing.T) {
	stack := construct.NewStack("stack")
	policy := iam.AWSManagedPolicy("X")
	rule, err := NewRequiredPolicyRule(stack, "policies", RequiredPolicyRuleProps{
		ManagedPolicy: &policy,
		Remediation:   PolicyRemediationOptions{RemediationOptions{Enabled: entity.Bool(false)}},
	})
	require.NoError(t, err)

	tpl, err := stack.Synth()
	require.NoError(t, err)
	assert.Nil(t, rule.Remediation())
	assert.Equal(t, 1, len(tpl.Resources))
}

func TestRequiredPolicyRuleNeedsPolicy(t *testing.T) {
	_, err := NewRequiredPolicyRule(construct.NewStack("stack"), "policies", RequiredPolicyRuleProps{})
	assert.ErrorIs(t, err, ErrManagedPolicyRequired)
}

func TestRemediationOptionDefaults(t *testing.T) {
	var opts RemediationOptions
	assert.True(t, opts.IsEnabled())
	assert.False(t, opts.IsAutomatic())

	opts = RemediationOptions{Automatic: entity.Bool(true), Enabled: entity.Bool(false)}
	assert.False(t, opts.IsEnabled())
	assert.True(t, opts.IsAutomatic())
}
