package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	StackName               string                       `json:"stack_name" yaml:"stack_name" toml:"stack_name"`
	Description             string                       `json:"description" yaml:"description" toml:"description"`
	Schedule                string                       `json:"schedule" yaml:"schedule" toml:"schedule"`
	ScheduleRate            string                       `json:"schedule_rate" yaml:"schedule_rate" toml:"schedule_rate"`
	ApplyOnlyAtCronInterval bool                         `json:"apply_only_at_cron_interval" yaml:"apply_only_at_cron_interval" toml:"apply_only_at_cron_interval"`
	Categories              map[string]bool              `json:"categories" yaml:"categories" toml:"categories"`
	Targets                 []TargetConfig               `json:"targets" yaml:"targets" toml:"targets"`
	PermissionEnforcement   *PermissionEnforcementConfig `json:"permission_enforcement" yaml:"permission_enforcement" toml:"permission_enforcement"`
	ReportName              string                       `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType              []string                     `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir                     string                       `json:"dir" yaml:"dir" toml:"dir"`
}

// TargetConfig descreve um seletor de instâncias. Apenas um dos campos deve ser usado.
type TargetConfig struct {
	All           bool                `json:"all" yaml:"all" toml:"all"`
	InstanceIDs   []string            `json:"instance_ids" yaml:"instance_ids" toml:"instance_ids"`
	InstancesFile string              `json:"instances_file" yaml:"instances_file" toml:"instances_file"`
	Tags          map[string][]string `json:"tags" yaml:"tags" toml:"tags"`
	// TagKeys fixa a ordem das chaves de Tags quando elas vêm de flags. Vazio
	// significa ordem alfabética.
	TagKeys       []string            `json:"-" yaml:"-" toml:"-"`
}

// PermissionEnforcementConfig habilita as regras do AWS Config.
type PermissionEnforcementConfig struct {
	Enabled     bool              `json:"enabled" yaml:"enabled" toml:"enabled"`
	Remediation RemediationConfig `json:"remediation" yaml:"remediation" toml:"remediation"`
}

// RemediationConfig controla as remediações das regras.
type RemediationConfig struct {
	// Enabled defaults to true when omitted.
	Enabled         *bool  `json:"enabled" yaml:"enabled" toml:"enabled"`
	Automatic       bool   `json:"automatic" yaml:"automatic" toml:"automatic"`
	DefaultRoleARN  string `json:"default_role_arn" yaml:"default_role_arn" toml:"default_role_arn"`
	DefaultRoleName string `json:"default_role_name" yaml:"default_role_name" toml:"default_role_name"`
}
