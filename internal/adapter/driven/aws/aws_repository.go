package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/repository"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/target"
	"github.com/diillson/aws-ssm-inventory-go/internal/shared/types"
)

// AWSRepositoryImpl implementa o AWSRepository lendo apenas a configuração local.
type AWSRepositoryImpl struct {
	cfgCache map[string]aws.Config
	mu       sync.Mutex
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository() repository.AWSRepository {
	return &AWSRepositoryImpl{
		cfgCache: make(map[string]aws.Config),
	}
}

// describeInstancesOutput é o formato salvo por `aws ec2 describe-instances`.
type describeInstancesOutput struct {
	Reservations []ec2Types.Reservation `json:"Reservations"`
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	// Credenciais são resolvidas sob demanda; nada aqui acessa a rede.
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) GetAWSProfiles() []string {
	credentialsPath := envOr("AWS_SHARED_CREDENTIALS_FILE", config.DefaultSharedCredentialsFilename())
	configPath := envOr("AWS_CONFIG_FILE", config.DefaultSharedConfigFilename())

	profiles := make(map[string]bool)
	profileRegex := regexp.MustCompile(`\[([^]]+)\]`)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		matches := profileRegex.FindAllStringSubmatch(string(content), -1)
		for _, match := range matches {
			profileName := strings.TrimSpace(match[1])
			if isConfig {
				if strings.HasPrefix(profileName, "sso-session ") || strings.HasPrefix(profileName, "services ") {
					continue
				}
				profileName = strings.TrimPrefix(profileName, "profile ")
			}
			profiles[profileName] = true
		}
	}

	parseFile(credentialsPath, false)
	parseFile(configPath, true)

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

// ResolveEnvironment lê a região do perfil e deduz a partição a partir dela.
func (r *AWSRepositoryImpl) ResolveEnvironment(ctx context.Context, profile string) (entity.Environment, error) {
	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return entity.Environment{}, err
	}

	if cfg.Region == "" {
		name := profile
		if name == "" {
			name = "default"
		}
		return entity.Environment{}, fmt.Errorf("%w: %s", types.ErrRegionNotConfigured, name)
	}

	return entity.Environment{
		Profile:   profile,
		Region:    cfg.Region,
		Partition: entity.PartitionForRegion(cfg.Region),
	}, nil
}

// LoadInstancesFile lê a saída JSON de describe-instances. Instâncias encerradas
// (ou em encerramento) são ignoradas.
func (r *AWSRepositoryImpl) LoadInstancesFile(path string) ([]entity.ManagedInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading instances file: %w", err)
	}

	var output describeInstancesOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("error parsing instances file %s: %w", path, err)
	}

	var instances []entity.ManagedInstance
	for _, reservation := range output.Reservations {
		for _, inst := range reservation.Instances {
			id := aws.ToString(inst.InstanceId)
			if id == "" {
				continue
			}

			state := ""
			if inst.State != nil {
				state = string(inst.State.Name)
			}
			if isGone(state) {
				continue
			}

			tags := make(map[string]string, len(inst.Tags))
			for _, tag := range inst.Tags {
				tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
			}

			instances = append(instances, entity.ManagedInstance{
				ID:       id,
				State:    state,
				Platform: aws.ToString(inst.PlatformDetails),
				Tags:     tags,
			})
		}
	}

	if len(instances) == 0 {
		return nil, fmt.Errorf("%w: no running or stopped instances in %s", target.ErrNoInstances, path)
	}
	return instances, nil
}

func isGone(state string) bool {
	switch ec2Types.InstanceStateName(state) {
	case ec2Types.InstanceStateNameTerminated, ec2Types.InstanceStateNameShuttingDown:
		return true
	}
	return false
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
