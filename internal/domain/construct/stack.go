package construct

import (
	"errors"
	"fmt"
	"sort"

	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// ErrLogicalIDConflict is returned by Synth when two resources map to the same
// logical ID.
var ErrLogicalIDConflict = errors.New("logical id conflict")

// Stack is the root of a construction tree and the unit of synthesis: every
// resource registered below it becomes one entry of a CloudFormation template.
type Stack struct {
	node        *Node
	description string
	partition   string
	resources   []*Resource
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithDescription sets the template description.
func WithDescription(description string) StackOption {
	return func(s *Stack) {
		s.description = description
	}
}

// WithPartition pins the AWS partition, so ARNs can be rendered as literals instead
// of AWS::Partition references.
func WithPartition(partition string) StackOption {
	return func(s *Stack) {
		s.partition = partition
	}
}

// NewStack creates an empty stack.
func NewStack(id string, opts ...StackOption) *Stack {
	s := &Stack{}
	s.node = &Node{id: id, stack: s}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Node implements Construct.
func (s *Stack) Node() *Node {
	return s.node
}

// Name returns the stack id.
func (s *Stack) Name() string {
	return s.node.id
}

// Description returns the template description.
func (s *Stack) Description() string {
	return s.description
}

// Partition returns the pinned partition, or "" when it is resolved at deploy time.
func (s *Stack) Partition() string {
	return s.partition
}

// Resources returns the registered resources in registration order.
func (s *Stack) Resources() []*Resource {
	out := make([]*Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

func (s *Stack) removeResourcesUnder(node *Node) {
	kept := s.resources[:0]
	for _, r := range s.resources {
		if !r.node.isWithin(node) {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(s.resources); i++ {
		s.resources[i] = nil
	}
	s.resources = kept
}

// Synth renders every registered resource into a template. Properties are
// produced now rather than at registration, so state accumulated after a resource
// was created is included. The first render error aborts synthesis.
func (s *Stack) Synth() (*cfn.Template, error) {
	tpl := cfn.NewTemplate(s.description)
	owners := map[string]string{}

	for _, r := range s.resources {
		logicalID := r.LogicalID()
		if owner, ok := owners[logicalID]; ok {
			return nil, fmt.Errorf("%w: %q is used by %s and %s", ErrLogicalIDConflict, logicalID, owner, r.node.Path())
		}
		owners[logicalID] = r.node.Path()

		props, err := r.render()
		if err != nil {
			return nil, fmt.Errorf("error synthesizing %s: %w", r.node.Path(), err)
		}

		var dependsOn []string
		for _, dep := range r.dependsOn {
			dependsOn = append(dependsOn, dep.LogicalID())
		}
		sort.Strings(dependsOn)

		tpl.Resources[logicalID] = cfn.Resource{
			Type:       r.resourceType,
			Properties: props,
			DependsOn:  dependsOn,
			Metadata:   map[string]any{cfn.MetadataPathKey: r.node.Path()},
		}
	}

	return tpl, nil
}
