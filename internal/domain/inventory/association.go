// Package inventory provides the Systems Manager Inventory constructs: the inventory
// association and the configuration façade that can also enforce the permissions
// instances need to report inventory.
package inventory

import (
	"time"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/target"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// AssociationDocument is the AWS owned document that gathers inventory.
const AssociationDocument = "AWS-GatherSoftwareInventory"

// DefaultSchedule is used when no schedule is given.
var DefaultSchedule = entity.MustRate(30 * time.Minute)

// AssociationProps configures an Association.
type AssociationProps struct {
	// ApplyOnlyAtCronInterval skips the run that normally happens right after the
	// association is created. Default false.
	ApplyOnlyAtCronInterval bool
	Categories              entity.InventoryCategories
	// Schedule defaults to DefaultSchedule.
	Schedule entity.Schedule
	// Targets defaults to every managed instance.
	Targets []target.Target
}

// Association collects inventory from the targeted managed instances on a schedule.
type Association struct {
	node     *construct.Node
	resource *construct.Resource
	schedule entity.Schedule
	targets  []target.Target
}

// NewAssociation registers an AWS::SSM::Association under scope. Targets are
// resolved at synthesis, so targets added with AddTarget later are included.
func NewAssociation(scope construct.Construct, id string, props AssociationProps) (*Association, error) {
	node, err := construct.NewNode(scope, id)
	if err != nil {
		return nil, err
	}

	a := &Association{node: node, schedule: props.Schedule}
	if a.schedule.IsZero() {
		a.schedule = DefaultSchedule
	}

	parameters := make(cfn.OrderedMap, 0, len(entity.CategoryNames))
	for _, p := range props.Categories.Parameters() {
		parameters = append(parameters, cfn.MapEntry{Key: p.Name, Value: []string{p.Value}})
	}

	a.resource, err = construct.NewResource(node, "Resource", cfn.TypeSSMAssociation, construct.RenderFunc(func() (any, error) {
		targets, err := a.RenderTargets()
		if err != nil {
			return nil, err
		}
		return cfn.AssociationProperties{
			ApplyOnlyAtCronInterval: props.ApplyOnlyAtCronInterval,
			Name:                    AssociationDocument,
			Parameters:              parameters,
			ScheduleExpression:      a.schedule.ExpressionString(),
			Targets:                 targets,
		}, nil
	}))
	if err != nil {
		return nil, err
	}

	for _, t := range props.Targets {
		a.AddTarget(t)
	}
	return a, nil
}

// Node implements construct.Construct.
func (a *Association) Node() *construct.Node {
	return a.node
}

// Resource returns the association resource.
func (a *Association) Resource() *construct.Resource {
	return a.resource
}

// Schedule returns the effective schedule.
func (a *Association) Schedule() entity.Schedule {
	return a.schedule
}

// AddTarget adds a target after the ones already registered. Nil targets are ignored.
func (a *Association) AddTarget(t target.Target) {
	if t == nil {
		return
	}
	a.targets = append(a.targets, t)
}

// Targets returns the registered targets in the order they were added.
func (a *Association) Targets() []target.Target {
	return append([]target.Target(nil), a.targets...)
}

// RenderTargets resolves the targets into association target pairs. Without any
// target the association applies to every managed instance.
func (a *Association) RenderTargets() ([]cfn.AssociationTarget, error) {
	if len(a.targets) == 0 {
		return target.AllInstances().Render()
	}

	var rendered []cfn.AssociationTarget
	for _, t := range a.targets {
		pairs, err := t.Render()
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, pairs...)
	}
	return rendered, nil
}
