package repository

import (
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

type ExportRepository interface {
	// Template
	ExportTemplateToJSON(tpl *cfn.Template, filename, outputDir string) (string, error)
	ExportTemplateToYAML(tpl *cfn.Template, filename, outputDir string) (string, error)

	// Resource manifest
	ExportManifestToCSV(result entity.SynthResult, filename, outputDir string) (string, error)
	ExportManifestToPDF(result entity.SynthResult, filename, outputDir string) (string, error)
}
