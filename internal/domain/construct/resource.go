package construct

import (
	"fmt"

	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// Renderer produces the properties of a resource at synthesis time.
type Renderer interface {
	Render() (any, error)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func() (any, error)

// Render implements Renderer.
func (f RenderFunc) Render() (any, error) {
	return f()
}

// Properties returns a Renderer for properties that are known up front.
func Properties(props any) Renderer {
	return RenderFunc(func() (any, error) {
		return props, nil
	})
}

// Resource is a template resource registered in the tree.
type Resource struct {
	node         *Node
	resourceType string
	renderer     Renderer
	dependsOn    []*Resource
}

// NewResource registers a resource of the given CloudFormation type under scope.
func NewResource(scope Construct, id, resourceType string, renderer Renderer) (*Resource, error) {
	node, err := NewNode(scope, id)
	if err != nil {
		return nil, err
	}
	stack := node.Stack()
	if stack == nil {
		return nil, fmt.Errorf("resource %s is not part of a stack", node.Path())
	}
	if renderer == nil {
		renderer = Properties(nil)
	}

	r := &Resource{node: node, resourceType: resourceType, renderer: renderer}
	stack.resources = append(stack.resources, r)
	return r, nil
}

// Node implements Construct.
func (r *Resource) Node() *Node {
	return r.node
}

// Type returns the CloudFormation resource type.
func (r *Resource) Type() string {
	return r.resourceType
}

// LogicalID returns the template key of the resource, derived from its path
// below the stack.
func (r *Resource) LogicalID() string {
	scopes := r.node.Scopes()
	components := make([]string, 0, len(scopes)-1)
	for _, s := range scopes[1:] {
		components = append(components, s.id)
	}
	return makeLogicalID(components)
}

// Ref returns a {"Ref": logicalID} intrinsic.
func (r *Resource) Ref() map[string]any {
	return cfn.Ref(r.LogicalID())
}

// GetAtt returns a {"Fn::GetAtt": [logicalID, attribute]} intrinsic.
func (r *Resource) GetAtt(attribute string) map[string]any {
	return cfn.GetAtt(r.LogicalID(), attribute)
}

// AddDependency adds an explicit DependsOn entry. Adding the same resource twice
// is a no-op.
func (r *Resource) AddDependency(other *Resource) {
	if other == nil || other == r {
		return
	}
	for _, d := range r.dependsOn {
		if d == other {
			return
		}
	}
	r.dependsOn = append(r.dependsOn, other)
}

func (r *Resource) render() (any, error) {
	return r.renderer.Render()
}
