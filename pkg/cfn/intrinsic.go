package cfn

// Pseudo parameters.
const (
	PseudoPartition = "AWS::Partition"
	PseudoAccountID = "AWS::AccountId"
)

// Ref builds a {"Ref": name} intrinsic.
func Ref(name string) map[string]any {
	return map[string]any{"Ref": name}
}

// GetAtt builds a {"Fn::GetAtt": [logicalID, attribute]} intrinsic.
func GetAtt(logicalID, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []string{logicalID, attribute}}
}

// Join builds a {"Fn::Join": [delimiter, [parts...]]} intrinsic.
func Join(delimiter string, parts ...any) map[string]any {
	return map[string]any{"Fn::Join": []any{delimiter, parts}}
}

// Sub builds a {"Fn::Sub": template} intrinsic.
func Sub(template string) map[string]any {
	return map[string]any{"Fn::Sub": template}
}
