package cfn

// Systems Manager resource types.
const (
	TypeSSMAssociation = "AWS::SSM::Association"
	TypeSSMDocument    = "AWS::SSM::Document"
)

// AssociationTarget selects the managed instances an association applies to.
type AssociationTarget struct {
	Key    string   `json:"Key" yaml:"Key"`
	Values []string `json:"Values" yaml:"Values"`
}

// AssociationProperties are the properties of an AWS::SSM::Association.
type AssociationProperties struct {
	ApplyOnlyAtCronInterval bool                `json:"ApplyOnlyAtCronInterval" yaml:"ApplyOnlyAtCronInterval"`
	Name                    string              `json:"Name" yaml:"Name"`
	Parameters              OrderedMap          `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	ScheduleExpression      string              `json:"ScheduleExpression,omitempty" yaml:"ScheduleExpression,omitempty"`
	Targets                 []AssociationTarget `json:"Targets,omitempty" yaml:"Targets,omitempty"`
}

// DocumentProperties are the properties of an AWS::SSM::Document.
type DocumentProperties struct {
	Content      any    `json:"Content" yaml:"Content"`
	DocumentType string `json:"DocumentType" yaml:"DocumentType"`
	UpdateMethod string `json:"UpdateMethod,omitempty" yaml:"UpdateMethod,omitempty"`
}
