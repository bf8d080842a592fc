package usecase

import (
	"fmt"
	"strings"

	"github.com/diillson/aws-ssm-inventory-go/internal/shared/types"
)

// MergeArgs applies the command-line flags on top of cfg and fills in defaults.
// Any target flag replaces the targets of the config file.
func MergeArgs(cfg *types.Config, args *types.CLIArgs) error {
	if args.StackName != "" {
		cfg.StackName = args.StackName
	}
	if cfg.StackName == "" {
		cfg.StackName = DefaultStackName
	}
	if args.Description != "" {
		cfg.Description = args.Description
	}
	if args.Schedule != "" {
		cfg.Schedule = args.Schedule
		cfg.ScheduleRate = ""
	}
	if args.ApplyOnlyAtCronInterval {
		cfg.ApplyOnlyAtCronInterval = true
	}

	if len(args.DisableCategories) > 0 {
		if cfg.Categories == nil {
			cfg.Categories = make(map[string]bool, len(args.DisableCategories))
		}
		for _, name := range args.DisableCategories {
			cfg.Categories[strings.TrimSpace(name)] = false
		}
	}

	targets, err := targetsFromArgs(args)
	if err != nil {
		return err
	}
	if len(targets) > 0 {
		cfg.Targets = targets
	}

	mergePermissionArgs(cfg, args)

	if args.ReportName != "" {
		cfg.ReportName = args.ReportName
	}
	if cfg.ReportName == "" {
		cfg.ReportName = cfg.StackName
	}
	if len(args.ReportType) > 0 {
		cfg.ReportType = args.ReportType
	}
	if len(cfg.ReportType) == 0 {
		cfg.ReportType = []string{ReportJSON}
	}
	for i, reportType := range cfg.ReportType {
		reportType = strings.ToLower(strings.TrimSpace(reportType))
		switch reportType {
		case ReportJSON, ReportYAML, ReportCSV, ReportPDF:
			cfg.ReportType[i] = reportType
		default:
			return fmt.Errorf("%w: %s", types.ErrUnsupportedReportType, reportType)
		}
	}
	if args.Dir != "" {
		cfg.Dir = args.Dir
	}
	return nil
}

func targetsFromArgs(args *types.CLIArgs) ([]types.TargetConfig, error) {
	var targets []types.TargetConfig
	if len(args.InstanceIDs) > 0 {
		targets = append(targets, types.TargetConfig{InstanceIDs: args.InstanceIDs})
	}
	if args.InstancesFile != "" {
		targets = append(targets, types.TargetConfig{InstancesFile: args.InstancesFile})
	}
	if len(args.Tags) > 0 {
		keys, tags, err := parseTags(args.Tags)
		if err != nil {
			return nil, err
		}
		targets = append(targets, types.TargetConfig{Tags: tags, TagKeys: keys})
	}
	return targets, nil
}

func mergePermissionArgs(cfg *types.Config, args *types.CLIArgs) {
	if !args.EnforcePermissions && !args.AutomaticRemediation && !args.DisableRemediation && args.DefaultRoleARN == "" {
		return
	}
	if cfg.PermissionEnforcement == nil {
		cfg.PermissionEnforcement = &types.PermissionEnforcementConfig{}
	}
	pe := cfg.PermissionEnforcement

	if args.EnforcePermissions {
		pe.Enabled = true
	}
	if args.AutomaticRemediation {
		pe.Remediation.Automatic = true
	}
	if args.DisableRemediation {
		disabled := false
		pe.Remediation.Enabled = &disabled
	}
	if args.DefaultRoleARN != "" {
		pe.Remediation.DefaultRoleARN = args.DefaultRoleARN
		pe.Remediation.DefaultRoleName = ""
	}
}
