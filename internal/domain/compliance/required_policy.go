package compliance

import (
	"errors"
	"fmt"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/iam"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

const (
	// GuardRuntime is the policy runtime of the custom policy rule.
	GuardRuntime = "guard-2.x.x"

	resourceTypeIAMRole = "AWS::IAM::Role"
)

// ErrManagedPolicyRequired is returned when a RequiredPolicyRule has no policy.
var ErrManagedPolicyRequired = errors.New("required policy rule needs a managed policy")

// Guard rule evaluated against AWS::IAM::Role configuration items. Only roles
// belonging to an instance profile are in scope. %s is the policy ARN.
const requiredPolicyGuard = `rule instance_role_has_required_policy when configuration.instanceProfileList !empty {
  some configuration.attachedManagedPolicies[*].policyArn == "%s"
}
`

// PolicyRemediationOptions controls the remediation of a RequiredPolicyRule.
type PolicyRemediationOptions struct {
	RemediationOptions
}

// RequiredPolicyRuleProps configures a RequiredPolicyRule.
type RequiredPolicyRuleProps struct {
	ManagedPolicy *iam.ManagedPolicy
	Remediation   PolicyRemediationOptions
}

// RequiredPolicyRule requires every role used by EC2 instances to carry a managed
// policy and, unless disabled, attaches it to the roles missing it.
type RequiredPolicyRule struct {
	node           *construct.Node
	rule           *construct.Resource
	policy         iam.ManagedPolicy
	document       *construct.Resource
	automationRole *iam.CreatedRole
	remediation    *construct.Resource
}

// NewRequiredPolicyRule registers the rule and its remediation under scope.
func NewRequiredPolicyRule(scope construct.Construct, id string, props RequiredPolicyRuleProps) (*RequiredPolicyRule, error) {
	if props.ManagedPolicy == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrManagedPolicyRequired)
	}
	node, err := construct.NewNode(scope, id)
	if err != nil {
		return nil, err
	}
	r := &RequiredPolicyRule{node: node, policy: *props.ManagedPolicy}

	r.rule, err = construct.NewResource(node, "Resource", cfn.TypeConfigRule, construct.RenderFunc(r.renderRule))
	if err != nil {
		return nil, err
	}

	if !props.Remediation.IsEnabled() {
		return r, nil
	}

	r.document, err = construct.NewResource(node, "RemediationDocument", cfn.TypeSSMDocument, construct.Properties(cfn.DocumentProperties{
		Content:      attachPolicyAutomation(),
		DocumentType: "Automation",
		UpdateMethod: "NewVersion",
	}))
	if err != nil {
		return nil, err
	}

	partition := node.Stack().Partition()
	r.automationRole, err = newAutomationRole(node, "RemediationRole",
		cfn.PolicyStatement{
			Action:   "config:ListDiscoveredResources",
			Effect:   "Allow",
			Resource: "*",
		},
		cfn.PolicyStatement{
			Action:   "iam:AttachRolePolicy",
			Effect:   "Allow",
			Resource: "*",
		},
	)
	if err != nil {
		return nil, err
	}

	r.remediation, err = newRemediation(node, "Remediation", remediationProps{
		rule:      r.rule,
		automatic: props.Remediation.IsAutomatic(),
		targetID:  r.document.Ref(),
		role:      r.automationRole,
		parameters: map[string]cfn.RemediationParameterValue{
			"PolicyArn": cfn.StaticParameter(r.policy.ARN(partition)),
			"RoleId":    cfn.ResourceIDParameter(),
		},
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *RequiredPolicyRule) renderRule() (any, error) {
	partition := r.node.Stack().Partition()
	text := fmt.Sprintf(requiredPolicyGuard, r.policy.ARNTemplate(partition))

	var policyText any = text
	if partition == "" {
		policyText = cfn.Sub(text)
	}

	return cfn.ConfigRuleProperties{
		Description: fmt.Sprintf("Checks that every role used by EC2 instances has %s attached", r.policy.Name()),
		Scope:       &cfn.ConfigRuleScope{ComplianceResourceTypes: []string{resourceTypeIAMRole}},
		Source: cfn.ConfigRuleSource{
			Owner: cfn.OwnerCustomPolicy,
			CustomPolicyDetails: &cfn.CustomPolicyDetails{
				PolicyRuntime: GuardRuntime,
				PolicyText:    policyText,
			},
			SourceDetails: []cfn.SourceDetail{{
				EventSource: "aws.config",
				MessageType: "ConfigurationItemChangeNotification",
			}},
		},
	}, nil
}

// attachPolicyAutomation is the automation run by the remediation. Config reports
// roles by id, so the role name is looked up before attaching the policy.
func attachPolicyAutomation() map[string]any {
	return map[string]any{
		"schemaVersion": "0.3",
		"description":   "Attaches a managed policy to the IAM role with the given id.",
		"assumeRole":    "{{ AutomationAssumeRole }}",
		"parameters": map[string]any{
			"AutomationAssumeRole": map[string]any{"type": "String"},
			"PolicyArn":            map[string]any{"type": "String"},
			"RoleId":               map[string]any{"type": "String"},
		},
		"mainSteps": []any{
			map[string]any{
				"name":   "DescribeRole",
				"action": "aws:executeAwsApi",
				"inputs": map[string]any{
					"Service":      "config",
					"Api":          "ListDiscoveredResources",
					"resourceType": resourceTypeIAMRole,
					"resourceIds":  []string{"{{ RoleId }}"},
				},
				"outputs": []any{
					map[string]any{
						"Name":     "RoleName",
						"Selector": "$.resourceIdentifiers[0].resourceName",
						"Type":     "String",
					},
				},
			},
			map[string]any{
				"name":   "AttachPolicy",
				"action": "aws:executeAwsApi",
				"inputs": map[string]any{
					"Service":   "iam",
					"Api":       "AttachRolePolicy",
					"RoleName":  "{{ DescribeRole.RoleName }}",
					"PolicyArn": "{{ PolicyArn }}",
				},
				"isEnd": true,
			},
		},
	}
}

// Node implements construct.Construct.
func (r *RequiredPolicyRule) Node() *construct.Node {
	return r.node
}

// Rule returns the config rule resource.
func (r *RequiredPolicyRule) Rule() *construct.Resource {
	return r.rule
}

// ManagedPolicy returns the policy the rule requires.
func (r *RequiredPolicyRule) ManagedPolicy() iam.ManagedPolicy {
	return r.policy
}

// Remediation returns the remediation configuration, or nil when disabled.
func (r *RequiredPolicyRule) Remediation() *construct.Resource {
	return r.remediation
}
