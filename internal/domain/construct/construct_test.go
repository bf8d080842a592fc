package construct

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

var logicalIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func TestNodePaths(t *testing.T) {
	stack := NewStack("stack")
	parent, err := NewNode(stack, "configuration")
	require.NoError(t, err)
	child, err := NewNode(parent, "Resource")
	require.NoError(t, err)

	assert.Equal(t, "stack/configuration/Resource", child.Path())
	assert.Same(t, stack, child.Stack())
	assert.Same(t, parent, child.Scope())
	assert.Same(t, child, parent.FindChild("Resource"))
	assert.Nil(t, parent.FindChild("missing"))
	assert.Len(t, stack.Node().Children(), 1)
}

func TestNodeRejectsBadIDs(t *testing.T) {
	stack := NewStack("stack")
	_, err := NewNode(stack, "a")
	require.NoError(t, err)

	_, err = NewNode(stack, "a")
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = NewNode(stack, "")
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = NewNode(stack, "a/b")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewNode(nil, "orphan")
	assert.Error(t, err)
}

func TestLogicalIDs(t *testing.T) {
	stack := NewStack("stack")
	top, err := NewResource(stack, "inventory", "Custom::A", nil)
	require.NoError(t, err)
	assert.Equal(t, "inventory", top.LogicalID())

	scope, err := NewNode(stack, "configuration")
	require.NoError(t, err)
	inner, err := NewNode(scope, "Resource")
	require.NoError(t, err)
	nested, err := NewResource(inner, "Resource", "Custom::B", nil)
	require.NoError(t, err)

	id := nested.LogicalID()
	assert.Regexp(t, logicalIDPattern, id)
	assert.Regexp(t, `^configuration[0-9A-F]{8}$`, id)
	assert.Equal(t, id, nested.LogicalID(), "logical ids are deterministic")

	sibling, err := NewResource(scope, "Role", "Custom::C", nil)
	require.NoError(t, err)
	assert.Regexp(t, `^configurationRole[0-9A-F]{8}$`, sibling.LogicalID())
	assert.NotEqual(t, id, sibling.LogicalID())
}

func TestLogicalIDStripsNonAlphanumeric(t *testing.T) {
	stack := NewStack("stack")
	scope, err := NewNode(stack, "my-config")
	require.NoError(t, err)
	r, err := NewResource(scope, "auto-configure-roles", "Custom::A", nil)
	require.NoError(t, err)

	assert.Regexp(t, `^myconfigautoconfigureroles[0-9A-F]{8}$`, r.LogicalID())
}

func TestSynthRendersLazily(t *testing.T) {
	stack := NewStack("stack", WithDescription("desc"), WithPartition("aws-cn"))
	values := []string{"first"}

	_, err := NewResource(stack, "Thing", "Custom::Thing", RenderFunc(func() (any, error) {
		return map[string]any{"Values": values}, nil
	}))
	require.NoError(t, err)
	values = append(values, "second")

	tpl, err := stack.Synth()
	require.NoError(t, err)

	assert.Equal(t, "desc", tpl.Description)
	assert.Equal(t, "aws-cn", stack.Partition())
	res := tpl.Resources["Thing"]
	assert.Equal(t, "Custom::Thing", res.Type)
	assert.Equal(t, map[string]any{"Values": []string{"first", "second"}}, res.Properties)
	assert.Equal(t, "stack/Thing", res.Path())
}

func TestSynthReturnsRenderErrors(t *testing.T) {
	stack := NewStack("stack")
	boom := errors.New("boom")
	_, err := NewResource(stack, "Broken", "Custom::Broken", RenderFunc(func() (any, error) {
		return nil, boom
	}))
	require.NoError(t, err)

	_, err = stack.Synth()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stack/Broken")
}

func TestSynthDependsOn(t *testing.T) {
	stack := NewStack("stack")
	a, err := NewResource(stack, "A", "Custom::A", nil)
	require.NoError(t, err)
	b, err := NewResource(stack, "B", "Custom::B", Properties(map[string]any{"Ref": a.Ref()}))
	require.NoError(t, err)
	b.AddDependency(a)
	b.AddDependency(a)
	b.AddDependency(b)

	tpl, err := stack.Synth()
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, tpl.Resources["B"].DependsOn)
	assert.Nil(t, tpl.Resources["A"].DependsOn)
	assert.Equal(t, cfn.Ref("A"), b.Ref())
	assert.Equal(t, cfn.GetAtt("A", "Arn"), a.GetAtt("Arn"))
	assert.Len(t, stack.Resources(), 2)
}

func TestSynthDetectsLogicalIDConflicts(t *testing.T) {
	stack := NewStack("stack")
	_, err := NewResource(stack, "my-thing", "Custom::A", nil)
	require.NoError(t, err)
	_, err = NewResource(stack, "mything", "Custom::B", nil)
	require.NoError(t, err)

	_, err = stack.Synth()
	assert.ErrorIs(t, err, ErrLogicalIDConflict)
}

func TestTryRemoveChildDropsSubtreeResources(t *testing.T) {
	stack := NewStack("stack")
	group, err := NewNode(stack, "group")
	require.NoError(t, err)
	_, err = NewResource(group, "Inner", "Custom::Inner", nil)
	require.NoError(t, err)
	_, err = NewResource(stack, "Outer", "Custom::Outer", nil)
	require.NoError(t, err)

	assert.True(t, stack.Node().TryRemoveChild("group"))
	assert.False(t, stack.Node().TryRemoveChild("group"))
	assert.Nil(t, stack.Node().FindChild("group"))

	require.Len(t, stack.Resources(), 1)
	assert.Equal(t, "Custom::Outer", stack.Resources()[0].Type())

	// o id fica livre de novo
	_, err = NewNode(stack, "group")
	assert.NoError(t, err)

	tpl, err := stack.Synth()
	require.NoError(t, err)
	assert.Equal(t, []string{"Outer"}, tpl.LogicalIDs())
}
