package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/repository"
	"github.com/diillson/aws-ssm-inventory-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if err := normalize(&config, filepath.Dir(filePath)); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return &config, nil
}

// normalize valida os alvos e resolve caminhos relativos a partir do diretório do arquivo.
func normalize(config *types.Config, baseDir string) error {
	for i := range config.ReportType {
		config.ReportType[i] = strings.ToLower(strings.TrimSpace(config.ReportType[i]))
	}

	for i, t := range config.Targets {
		selectors := 0
		if t.All {
			selectors++
		}
		if len(t.InstanceIDs) > 0 {
			selectors++
		}
		if t.InstancesFile != "" {
			selectors++
			if !filepath.IsAbs(t.InstancesFile) {
				config.Targets[i].InstancesFile = filepath.Join(baseDir, t.InstancesFile)
			}
		}
		if len(t.Tags) > 0 {
			selectors++
		}
		if selectors != 1 {
			return fmt.Errorf("%w: targets[%d] must set exactly one of all, instance_ids, instances_file or tags", types.ErrInvalidTarget, i)
		}
	}

	if pe := config.PermissionEnforcement; pe != nil {
		if pe.Remediation.DefaultRoleARN != "" && pe.Remediation.DefaultRoleName != "" {
			return types.ErrConflictingRoles
		}
	}
	return nil
}
