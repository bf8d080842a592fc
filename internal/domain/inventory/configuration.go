package inventory

import (
	"fmt"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/compliance"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/iam"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/target"
)

// InstanceDefaultPolicy grants the baseline permissions an instance needs to be
// managed by Systems Manager.
const InstanceDefaultPolicy = "AmazonSSMManagedEC2InstanceDefaultPolicy"

// Construct ids of the permission enforcement rules.
const (
	RoleRuleID   = "auto-configure-roles"
	PolicyRuleID = "auto-configure-policies"
)

// PermissionRemediationOptions controls how non-compliant instances are fixed.
type PermissionRemediationOptions struct {
	// Automatic applies remediations without manual approval. Default false.
	Automatic *bool
	// DefaultRole is attached to instances without a role. A new role is created
	// when nil.
	DefaultRole iam.Role
	// Enabled provisions remediations at all. Default true.
	Enabled *bool
}

// PermissionEnforcementOptions configures EnablePermissionEnforcement.
type PermissionEnforcementOptions struct {
	Remediation PermissionRemediationOptions
}

// PermissionEnforcementProps enables permission enforcement from the constructor.
type PermissionEnforcementProps struct {
	PermissionEnforcementOptions
	Enabled bool
}

// ConfigurationProps configures a Configuration.
type ConfigurationProps struct {
	ApplyOnlyAtCronInterval bool
	Categories              entity.InventoryCategories
	PermissionEnforcement   PermissionEnforcementProps
	Schedule                entity.Schedule
	Targets                 []target.Target
}

type enforcementState int

const (
	enforcementDisabled enforcementState = iota
	enforcementEnabled
)

// Configuration sets up inventory collection and, optionally, the compliance rules
// that make sure instances have the permissions to report it.
type Configuration struct {
	node        *construct.Node
	association *Association
	enforcement enforcementState
	roleRule    *compliance.RequiredRoleRule
	policyRule  *compliance.RequiredPolicyRule
}

// NewConfiguration registers a configuration under scope.
func NewConfiguration(scope construct.Construct, id string, props ConfigurationProps) (*Configuration, error) {
	node, err := construct.NewNode(scope, id)
	if err != nil {
		return nil, err
	}
	c := &Configuration{node: node}

	c.association, err = NewAssociation(node, "Resource", AssociationProps{
		ApplyOnlyAtCronInterval: props.ApplyOnlyAtCronInterval,
		Categories:              props.Categories,
		Schedule:                props.Schedule,
		Targets:                 props.Targets,
	})
	if err != nil {
		return nil, err
	}

	if props.PermissionEnforcement.Enabled {
		if err := c.EnablePermissionEnforcement(props.PermissionEnforcement.PermissionEnforcementOptions); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Node implements construct.Construct.
func (c *Configuration) Node() *construct.Node {
	return c.node
}

// Association returns the inventory association.
func (c *Configuration) Association() *Association {
	return c.association
}

// PermissionEnforcementEnabled reports whether the compliance rules were provisioned.
func (c *Configuration) PermissionEnforcementEnabled() bool {
	return c.enforcement == enforcementEnabled
}

// RoleRule returns the required-role rule, or nil while enforcement is disabled.
func (c *Configuration) RoleRule() *compliance.RequiredRoleRule {
	return c.roleRule
}

// PolicyRule returns the required-policy rule, or nil while enforcement is disabled.
func (c *Configuration) PolicyRule() *compliance.RequiredPolicyRule {
	return c.policyRule
}

// EnablePermissionEnforcement provisions two rules: every instance must have a role,
// and every instance role must carry the InstanceDefaultPolicy. The policy is also
// attached to the default role used by the role remediation. Only the first call
// has an effect; later calls are ignored, whatever their options. On error nothing
// stays registered, so the call can be retried.
func (c *Configuration) EnablePermissionEnforcement(opts PermissionEnforcementOptions) error {
	if c.enforcement == enforcementEnabled {
		return nil
	}

	for _, id := range []string{RoleRuleID, PolicyRuleID} {
		if c.node.FindChild(id) != nil {
			return fmt.Errorf("%w: %q under %q", construct.ErrDuplicateID, id, c.node.Path())
		}
	}

	policy := iam.AWSManagedPolicy(InstanceDefaultPolicy)
	remediation := compliance.RemediationOptions{
		Automatic: opts.Remediation.Automatic,
		Enabled:   opts.Remediation.Enabled,
	}

	roleRule, err := compliance.NewRequiredRoleRule(c.node, RoleRuleID, compliance.RequiredRoleRuleProps{
		Remediation: compliance.RoleRemediationOptions{
			RemediationOptions: remediation,
			Role:               opts.Remediation.DefaultRole,
		},
	})
	if err != nil {
		c.node.TryRemoveChild(RoleRuleID)
		return err
	}

	policyRule, err := compliance.NewRequiredPolicyRule(c.node, PolicyRuleID, compliance.RequiredPolicyRuleProps{
		ManagedPolicy: &policy,
		Remediation:   compliance.PolicyRemediationOptions{RemediationOptions: remediation},
	})
	if err != nil {
		c.node.TryRemoveChild(PolicyRuleID)
		c.node.TryRemoveChild(RoleRuleID)
		return err
	}

	if role := roleRule.DefaultRole(); role != nil {
		role.AddManagedPolicy(policy)
	}

	c.roleRule = roleRule
	c.policyRule = policyRule
	c.enforcement = enforcementEnabled
	return nil
}

// AddTarget adds a target to the association and returns c for chaining.
func (c *Configuration) AddTarget(t target.Target) *Configuration {
	c.association.AddTarget(t)
	return c
}
