// Package compliance provides AWS Config rules that keep EC2 instances manageable by
// Systems Manager, each with an optional remediation.
package compliance

import (
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/iam"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// Remediation retry policy shared by both rules.
const (
	MaximumAutomaticAttempts = 5
	RetryAttemptSeconds      = 60
)

// RemediationOptions controls the remediation of a rule.
type RemediationOptions struct {
	// Automatic applies the remediation without manual approval. Default false.
	Automatic *bool
	// Enabled provisions the remediation at all. Default true.
	Enabled *bool
}

// IsEnabled resolves Enabled against its default.
func (o RemediationOptions) IsEnabled() bool {
	return o.Enabled == nil || *o.Enabled
}

// IsAutomatic resolves Automatic against its default.
func (o RemediationOptions) IsAutomatic() bool {
	return o.Automatic != nil && *o.Automatic
}

type remediationProps struct {
	rule       *construct.Resource
	automatic  bool
	targetID   any
	role       iam.Role
	parameters map[string]cfn.RemediationParameterValue
}

// newRemediation registers the AWS::Config::RemediationConfiguration of a rule.
// AutomationAssumeRole is always bound to the remediation role.
func newRemediation(scope construct.Construct, id string, props remediationProps) (*construct.Resource, error) {
	return construct.NewResource(scope, id, cfn.TypeRemediationConfiguration, construct.RenderFunc(func() (any, error) {
		params := map[string]cfn.RemediationParameterValue{
			"AutomationAssumeRole": cfn.StaticParameter(props.role.RoleARN()),
		}
		for k, v := range props.parameters {
			params[k] = v
		}
		return cfn.RemediationConfigurationProperties{
			Automatic:                props.automatic,
			ConfigRuleName:           props.rule.Ref(),
			MaximumAutomaticAttempts: MaximumAutomaticAttempts,
			Parameters:               params,
			RetryAttemptSeconds:      RetryAttemptSeconds,
			TargetID:                 props.targetID,
			TargetType:               cfn.RemediationTargetSSMDocument,
		}, nil
	}))
}

// newAutomationRole registers the role Systems Manager Automation assumes while
// remediating.
func newAutomationRole(scope construct.Construct, id string, statements ...cfn.PolicyStatement) (*iam.CreatedRole, error) {
	return iam.NewRole(scope, id, iam.RoleProps{
		AssumedBy:   iam.ServiceSSM,
		Description: "Assumed by Systems Manager Automation to remediate non-compliant resources",
		InlinePolicies: map[string]cfn.PolicyDocument{
			"remediation": cfn.NewPolicyDocument(statements...),
		},
	})
}
