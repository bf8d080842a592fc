package repository

import (
	"context"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
)

// AWSRepository reads the local AWS setup. Implementations never call AWS APIs.
type AWSRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	ResolveEnvironment(ctx context.Context, profile string) (entity.Environment, error)

	// EC2 Operations
	LoadInstancesFile(path string) ([]entity.ManagedInstance, error)
}
