package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile              string
	StackName               string
	Description             string
	Schedule                string
	ApplyOnlyAtCronInterval bool
	DisableCategories       []string
	InstanceIDs             []string
	InstancesFile           string
	Tags                    []string
	EnforcePermissions      bool
	AutomaticRemediation    bool
	DisableRemediation      bool
	DefaultRoleARN          string
	Profile                 string
	Partition               string
	ReportName              string
	ReportType              []string
	Dir                     string
	Stdout                  bool
}
