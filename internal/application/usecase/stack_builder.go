package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/iam"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/inventory"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/target"
	"github.com/diillson/aws-ssm-inventory-go/internal/shared/types"
)

// ConfigurationID is the construct id of the inventory configuration in the stack.
const ConfigurationID = "InventoryConfiguration"

// DefaultStackName is used when neither flags nor the config file name the stack.
const DefaultStackName = "ssm-inventory"

var stackNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{0,127}$`)

// buildStack monta a árvore de constructs a partir da configuração consolidada.
func (uc *SynthUseCase) buildStack(cfg *types.Config, env entity.Environment) (*construct.Stack, *inventory.Configuration, error) {
	if !stackNameRegex.MatchString(cfg.StackName) {
		return nil, nil, fmt.Errorf("%w: %q", types.ErrInvalidStackName, cfg.StackName)
	}

	schedule, err := resolveSchedule(cfg)
	if err != nil {
		return nil, nil, err
	}

	categories, err := entity.CategoriesFromMap(cfg.Categories)
	if err != nil {
		return nil, nil, err
	}

	targets, err := uc.resolveTargets(cfg.Targets)
	if err != nil {
		return nil, nil, err
	}

	stack := construct.NewStack(cfg.StackName,
		construct.WithDescription(cfg.Description),
		construct.WithPartition(env.Partition),
	)

	props := inventory.ConfigurationProps{
		ApplyOnlyAtCronInterval: cfg.ApplyOnlyAtCronInterval,
		Categories:              categories,
		Schedule:                schedule,
		Targets:                 targets,
	}

	if pe := cfg.PermissionEnforcement; pe != nil && pe.Enabled {
		remediation, err := remediationOptions(pe.Remediation)
		if err != nil {
			return nil, nil, err
		}
		props.PermissionEnforcement = inventory.PermissionEnforcementProps{
			Enabled: true,
			PermissionEnforcementOptions: inventory.PermissionEnforcementOptions{
				Remediation: remediation,
			},
		}
	}

	configuration, err := inventory.NewConfiguration(stack, ConfigurationID, props)
	if err != nil {
		return nil, nil, err
	}
	return stack, configuration, nil
}

// resolveSchedule aceita uma expressão rate()/cron() ou uma duração Go ("90m", "2h").
// schedule tem precedência sobre schedule_rate.
func resolveSchedule(cfg *types.Config) (entity.Schedule, error) {
	raw := strings.TrimSpace(cfg.Schedule)
	if raw == "" {
		raw = strings.TrimSpace(cfg.ScheduleRate)
	}
	return parseSchedule(raw)
}

func parseSchedule(raw string) (entity.Schedule, error) {
	switch {
	case raw == "":
		return entity.Schedule{}, nil
	case strings.HasPrefix(raw, "rate(") || strings.HasPrefix(raw, "cron("):
		return entity.Expression(raw), nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return entity.Schedule{}, fmt.Errorf("%w: %q is neither an expression nor a duration", entity.ErrInvalidRate, raw)
	}
	return entity.Rate(d)
}

// resolveTargets converte os alvos configurados, lendo arquivos de instâncias quando necessário.
func (uc *SynthUseCase) resolveTargets(configs []types.TargetConfig) ([]target.Target, error) {
	targets := make([]target.Target, 0, len(configs))
	for i, tc := range configs {
		switch {
		case tc.All:
			targets = append(targets, target.AllInstances())
		case len(tc.InstanceIDs) > 0:
			targets = append(targets, target.Instances(target.InstanceIDs(tc.InstanceIDs...)...))
		case tc.InstancesFile != "":
			managed, err := uc.awsRepo.LoadInstancesFile(tc.InstancesFile)
			if err != nil {
				return nil, err
			}
			instances := make([]target.Instance, 0, len(managed))
			for _, m := range managed {
				instances = append(instances, m)
			}
			uc.console.LogInfo("Loaded %d instances from %s", len(instances), tc.InstancesFile)
			targets = append(targets, target.Instances(instances...))
		case len(tc.Tags) > 0:
			targets = append(targets, tagsTarget(tc))
		default:
			return nil, fmt.Errorf("%w: targets[%d] is empty", types.ErrInvalidTarget, i)
		}
	}
	return targets, nil
}

func remediationOptions(rc types.RemediationConfig) (inventory.PermissionRemediationOptions, error) {
	opts := inventory.PermissionRemediationOptions{
		Automatic: entity.Bool(rc.Automatic),
		Enabled:   rc.Enabled,
	}

	switch {
	case rc.DefaultRoleARN != "" && rc.DefaultRoleName != "":
		return opts, types.ErrConflictingRoles
	case rc.DefaultRoleARN != "":
		role, err := iam.RoleFromARN(rc.DefaultRoleARN)
		if err != nil {
			return opts, err
		}
		opts.DefaultRole = role
	case rc.DefaultRoleName != "":
		opts.DefaultRole = iam.RoleFromName(rc.DefaultRoleName)
	}
	return opts, nil
}

// tagsTarget respeita TagKeys quando presente; sem ela as chaves seguem a ordem
// alfabética de target.Tags.
func tagsTarget(tc types.TargetConfig) *target.TagsTarget {
	if len(tc.TagKeys) == 0 {
		return target.Tags(tc.Tags)
	}
	t := target.Tags(nil)
	for _, key := range tc.TagKeys {
		t.AddTag(key, tc.Tags[key]...)
	}
	return t
}

// parseTags agrupa valores "Key=Value" por chave, guardando as chaves na ordem em
// que aparecem.
func parseTags(tags []string) ([]string, map[string][]string, error) {
	var keys []string
	grouped := make(map[string][]string)
	for _, tag := range tags {
		key, value, ok := strings.Cut(tag, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, nil, fmt.Errorf("%w: %q", types.ErrInvalidTag, tag)
		}
		if _, seen := grouped[key]; !seen {
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], value)
	}
	return keys, grouped, nil
}
