package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/shared/types"
)

func TestMergeArgsDefaults(t *testing.T) {
	cfg := &types.Config{}
	require.NoError(t, MergeArgs(cfg, &types.CLIArgs{}))

	assert.Equal(t, DefaultStackName, cfg.StackName)
	assert.Equal(t, DefaultStackName, cfg.ReportName)
	assert.Equal(t, []string{ReportJSON}, cfg.ReportType)
	assert.Nil(t, cfg.Targets)
	assert.Nil(t, cfg.PermissionEnforcement)
}

func TestMergeArgsFlagsOverrideConfig(t *testing.T) {
	cfg := &types.Config{
		StackName:    "from-file",
		ScheduleRate: "1h",
		Categories:   map[string]bool{"services": true},
		Targets:      []types.TargetConfig{{All: true}},
		ReportType:   []string{"PDF"},
		Dir:          "file-dir",
	}
	args := &types.CLIArgs{
		StackName:               "from-flags",
		Schedule:                "cron(0 2 ? * SUN *)",
		ApplyOnlyAtCronInterval: true,
		DisableCategories:       []string{"windowsUpdates", " services "},
		InstanceIDs:             []string{"i-1"},
		Tags:                    []string{"env=dev", "env=qa", "team=ops"},
		Dir:                     "flag-dir",
	}
	require.NoError(t, MergeArgs(cfg, args))

	assert.Equal(t, "from-flags", cfg.StackName)
	assert.Equal(t, "from-flags", cfg.ReportName)
	assert.Equal(t, "cron(0 2 ? * SUN *)", cfg.Schedule)
	assert.Empty(t, cfg.ScheduleRate)
	assert.True(t, cfg.ApplyOnlyAtCronInterval)
	assert.Equal(t, map[string]bool{"services": false, "windowsUpdates": false}, cfg.Categories)
	assert.Equal(t, []types.TargetConfig{
		{InstanceIDs: []string{"i-1"}},
		{Tags: map[string][]string{"env": {"dev", "qa"}, "team": {"ops"}}, TagKeys: []string{"env", "team"}},
	}, cfg.Targets)
	assert.Equal(t, []string{ReportPDF}, cfg.ReportType)
	assert.Equal(t, "flag-dir", cfg.Dir)
}

func TestMergeArgsKeepsConfigTargetsWithoutTargetFlags(t *testing.T) {
	cfg := &types.Config{Targets: []types.TargetConfig{{InstanceIDs: []string{"i-9"}}}}
	require.NoError(t, MergeArgs(cfg, &types.CLIArgs{}))
	assert.Equal(t, []types.TargetConfig{{InstanceIDs: []string{"i-9"}}}, cfg.Targets)
}

func TestMergeArgsPermissionFlags(t *testing.T) {
	cfg := &types.Config{
		PermissionEnforcement: &types.PermissionEnforcementConfig{
			Remediation: types.RemediationConfig{DefaultRoleName: "from-file"},
		},
	}
	require.NoError(t, MergeArgs(cfg, &types.CLIArgs{
		EnforcePermissions:   true,
		AutomaticRemediation: true,
		DisableRemediation:   true,
		DefaultRoleARN:       "arn:aws:iam::123456789012:role/r",
	}))

	pe := cfg.PermissionEnforcement
	require.NotNil(t, pe)
	assert.True(t, pe.Enabled)
	assert.True(t, pe.Remediation.Automatic)
	require.NotNil(t, pe.Remediation.Enabled)
	assert.False(t, *pe.Remediation.Enabled)
	assert.Equal(t, "arn:aws:iam::123456789012:role/r", pe.Remediation.DefaultRoleARN)
	assert.Empty(t, pe.Remediation.DefaultRoleName)
}

func TestMergeArgsErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    types.CLIArgs
		wantErr error
	}{
		{name: "tag without value", args: types.CLIArgs{Tags: []string{"env"}}, wantErr: types.ErrInvalidTag},
		{name: "tag with empty key", args: types.CLIArgs{Tags: []string{"=dev"}}, wantErr: types.ErrInvalidTag},
		{name: "unknown report type", args: types.CLIArgs{ReportType: []string{"xlsx"}}, wantErr: types.ErrUnsupportedReportType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MergeArgs(&types.Config{}, &tt.args)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: ""},
		{raw: "rate(5 minutes)", want: "rate(5 minutes)"},
		{raw: "cron(0 12 * * ? *)", want: "cron(0 12 * * ? *)"},
		{raw: "2h", want: "rate(2 hours)"},
		{raw: "24h", want: "rate(1 day)"},
		{raw: "90m", want: "rate(90 minutes)"},
		{raw: "30s", wantErr: true},
		{raw: "weekly", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			schedule, err := parseSchedule(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalidRate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, schedule.ExpressionString())
		})
	}
}

func TestResolveScheduleScheduleWinsOverRate(t *testing.T) {
	schedule, err := resolveSchedule(&types.Config{Schedule: "rate(3 hours)", ScheduleRate: "1h"})
	require.NoError(t, err)
	assert.Equal(t, "rate(3 hours)", schedule.ExpressionString())

	schedule, err = resolveSchedule(&types.Config{ScheduleRate: "1h"})
	require.NoError(t, err)
	assert.Equal(t, "rate(1 hour)", schedule.ExpressionString())
}
