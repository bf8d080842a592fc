package iam

import (
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// InstanceProfile wraps a role so it can be attached to EC2 instances.
type InstanceProfile struct {
	resource *construct.Resource
	role     Role
}

// NewInstanceProfile registers an AWS::IAM::InstanceProfile holding role.
func NewInstanceProfile(scope construct.Construct, id string, role Role) (*InstanceProfile, error) {
	profile := &InstanceProfile{role: role}
	res, err := construct.NewResource(scope, id, cfn.TypeIAMInstanceProfile, construct.RenderFunc(func() (any, error) {
		return cfn.InstanceProfileProperties{Roles: []any{role.RoleName()}}, nil
	}))
	if err != nil {
		return nil, err
	}
	profile.resource = res
	return profile, nil
}

// Resource returns the underlying template resource.
func (p *InstanceProfile) Resource() *construct.Resource {
	return p.resource
}

// Role returns the role held by the profile.
func (p *InstanceProfile) Role() Role {
	return p.role
}
