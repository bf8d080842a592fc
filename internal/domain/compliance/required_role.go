package compliance

import (
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/iam"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

const (
	// InstanceProfileAttachedRule is the AWS managed rule checking that an EC2
	// instance has an instance profile.
	InstanceProfileAttachedRule = "EC2_INSTANCE_PROFILE_ATTACHED"
	// AttachIAMToInstanceDocument is the AWS owned automation attaching a role to
	// an instance.
	AttachIAMToInstanceDocument = "AWS-AttachIAMToInstance"

	resourceTypeEC2Instance = "AWS::EC2::Instance"
)

// RoleRemediationOptions controls the remediation of a RequiredRoleRule.
type RoleRemediationOptions struct {
	RemediationOptions
	// Role is attached to non-compliant instances. A role assumable by EC2 is
	// created when nil.
	Role iam.Role
}

// RequiredRoleRuleProps configures a RequiredRoleRule.
type RequiredRoleRuleProps struct {
	Remediation RoleRemediationOptions
}

// RequiredRoleRule requires every EC2 instance to have a role attached and,
// unless disabled, attaches a default role to the instances that have none.
type RequiredRoleRule struct {
	node            *construct.Node
	rule            *construct.Resource
	defaultRole     iam.Role
	instanceProfile *iam.InstanceProfile
	automationRole  *iam.CreatedRole
	remediation     *construct.Resource
}

// NewRequiredRoleRule registers the rule and its remediation under scope.
func NewRequiredRoleRule(scope construct.Construct, id string, props RequiredRoleRuleProps) (*RequiredRoleRule, error) {
	node, err := construct.NewNode(scope, id)
	if err != nil {
		return nil, err
	}
	r := &RequiredRoleRule{node: node}

	r.rule, err = construct.NewResource(node, "Resource", cfn.TypeConfigRule, construct.Properties(cfn.ConfigRuleProperties{
		Description: "Checks that every EC2 instance has an IAM role attached",
		Scope:       &cfn.ConfigRuleScope{ComplianceResourceTypes: []string{resourceTypeEC2Instance}},
		Source: cfn.ConfigRuleSource{
			Owner:            cfn.OwnerAWS,
			SourceIdentifier: InstanceProfileAttachedRule,
		},
	}))
	if err != nil {
		return nil, err
	}

	if !props.Remediation.IsEnabled() {
		return r, nil
	}

	r.defaultRole = props.Remediation.Role
	if r.defaultRole == nil {
		created, err := iam.NewRole(node, "DefaultRole", iam.RoleProps{
			AssumedBy:   iam.ServiceEC2,
			Description: "Default role attached to EC2 instances without one",
		})
		if err != nil {
			return nil, err
		}
		r.defaultRole = created
	}

	r.instanceProfile, err = iam.NewInstanceProfile(node, "InstanceProfile", r.defaultRole)
	if err != nil {
		return nil, err
	}

	r.automationRole, err = newAutomationRole(node, "RemediationRole",
		cfn.PolicyStatement{
			Action: []string{
				"ec2:AssociateIamInstanceProfile",
				"ec2:DescribeIamInstanceProfileAssociations",
				"ec2:DisassociateIamInstanceProfile",
				"ec2:ReplaceIamInstanceProfileAssociation",
				"iam:GetInstanceProfile",
				"iam:ListInstanceProfilesForRole",
			},
			Effect:   "Allow",
			Resource: "*",
		},
		cfn.PolicyStatement{
			Action:   "iam:PassRole",
			Effect:   "Allow",
			Resource: r.defaultRole.RoleARN(),
		},
	)
	if err != nil {
		return nil, err
	}

	r.remediation, err = newRemediation(node, "Remediation", remediationProps{
		rule:      r.rule,
		automatic: props.Remediation.IsAutomatic(),
		targetID:  AttachIAMToInstanceDocument,
		role:      r.automationRole,
		parameters: map[string]cfn.RemediationParameterValue{
			"InstanceId": cfn.ResourceIDParameter(),
			"RoleName":   cfn.StaticParameter(r.defaultRole.RoleName()),
		},
	})
	if err != nil {
		return nil, err
	}
	r.remediation.AddDependency(r.instanceProfile.Resource())

	return r, nil
}

// Node implements construct.Construct.
func (r *RequiredRoleRule) Node() *construct.Node {
	return r.node
}

// Rule returns the config rule resource.
func (r *RequiredRoleRule) Rule() *construct.Resource {
	return r.rule
}

// DefaultRole returns the role attached by the remediation, or nil when the
// remediation is disabled.
func (r *RequiredRoleRule) DefaultRole() iam.Role {
	return r.defaultRole
}

// Remediation returns the remediation configuration, or nil when disabled.
func (r *RequiredRoleRule) Remediation() *construct.Resource {
	return r.remediation
}
