// Package target implements the selectors that decide which managed instances an
// inventory association applies to.
package target

import (
	"errors"
	"fmt"
	"sort"

	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// Association target keys understood by Systems Manager.
const (
	KeyInstanceIDs = "InstanceIds"
	TagKeyPrefix   = "tag:"
	AllInstancesID = "*"
)

var (
	ErrNoInstances      = errors.New("instances target must have at least one instance associated")
	ErrNoTags           = errors.New("tags target must have at least one tag associated")
	ErrTagWithoutValues = errors.New("all tags target tags must have values associated")
)

// Kind identifies the variant of a Target.
type Kind int

const (
	KindAllInstances Kind = iota
	KindInstances
	KindTags
)

func (k Kind) String() string {
	switch k {
	case KindAllInstances:
		return "all-instances"
	case KindInstances:
		return "instances"
	case KindTags:
		return "tags"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Target renders to one or more association target pairs. Validation happens at
// render time, so a target may be built up incrementally.
type Target interface {
	Kind() Kind
	Render() ([]cfn.AssociationTarget, error)
}

// Instance is a managed instance that can be targeted by id.
type Instance interface {
	InstanceID() string
}

// InstanceID is an Instance known only by its id.
type InstanceID string

// InstanceID implements Instance.
func (id InstanceID) InstanceID() string {
	return string(id)
}

// InstanceIDs converts raw ids to instances.
func InstanceIDs(ids ...string) []Instance {
	out := make([]Instance, len(ids))
	for i, id := range ids {
		out[i] = InstanceID(id)
	}
	return out
}

// AllInstancesTarget selects every managed instance.
type AllInstancesTarget struct{}

// AllInstances returns a target matching every managed instance.
func AllInstances() *AllInstancesTarget {
	return &AllInstancesTarget{}
}

// Kind implements Target.
func (t *AllInstancesTarget) Kind() Kind {
	return KindAllInstances
}

// Render implements Target.
func (t *AllInstancesTarget) Render() ([]cfn.AssociationTarget, error) {
	return []cfn.AssociationTarget{{
		Key:    KeyInstanceIDs,
		Values: []string{AllInstancesID},
	}}, nil
}

// InstancesTarget selects an explicit list of instances.
type InstancesTarget struct {
	instances []Instance
}

// Instances returns a target for the given instances. More can be added later.
func Instances(instances ...Instance) *InstancesTarget {
	t := &InstancesTarget{}
	return t.AddInstances(instances...)
}

// AddInstances appends instances, keeping insertion order.
func (t *InstancesTarget) AddInstances(instances ...Instance) *InstancesTarget {
	t.instances = append(t.instances, instances...)
	return t
}

// Kind implements Target.
func (t *InstancesTarget) Kind() Kind {
	return KindInstances
}

// Render implements Target.
func (t *InstancesTarget) Render() ([]cfn.AssociationTarget, error) {
	if len(t.instances) == 0 {
		return nil, ErrNoInstances
	}

	values := make([]string, len(t.instances))
	for i, inst := range t.instances {
		values[i] = inst.InstanceID()
	}
	return []cfn.AssociationTarget{{Key: KeyInstanceIDs, Values: values}}, nil
}

// TagsTarget selects instances by tag values. Tags keep their insertion order and
// each tag holds a de-duplicated list of values.
type TagsTarget struct {
	keys   []string
	values map[string][]string
}

// Tags returns a target for the given tags. Since Go maps are unordered, keys are
// inserted in sorted order; use AddTag to control the order explicitly.
func Tags(tags map[string][]string) *TagsTarget {
	t := &TagsTarget{values: map[string][]string{}}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		t.AddTag(k, tags[k]...)
	}
	return t
}

// AddTag registers a tag key, if new, and appends the values not already present.
// A key with no values is kept and reported as an error at render time.
func (t *TagsTarget) AddTag(key string, values ...string) *TagsTarget {
	if t.values == nil {
		t.values = map[string][]string{}
	}
	current, ok := t.values[key]
	if !ok {
		t.keys = append(t.keys, key)
		current = []string{}
	}
	for _, v := range values {
		if !contains(current, v) {
			current = append(current, v)
		}
	}
	t.values[key] = current
	return t
}

// Kind implements Target.
func (t *TagsTarget) Kind() Kind {
	return KindTags
}

// Render implements Target.
func (t *TagsTarget) Render() ([]cfn.AssociationTarget, error) {
	if len(t.keys) == 0 {
		return nil, ErrNoTags
	}

	rendered := make([]cfn.AssociationTarget, 0, len(t.keys))
	for _, k := range t.keys {
		values := t.values[k]
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: missing for '%s'", ErrTagWithoutValues, k)
		}
		rendered = append(rendered, cfn.AssociationTarget{
			Key:    TagKeyPrefix + k,
			Values: append([]string(nil), values...),
		})
	}
	return rendered, nil
}

func contains(values []string, v string) bool {
	for _, cur := range values {
		if cur == v {
			return true
		}
	}
	return false
}
