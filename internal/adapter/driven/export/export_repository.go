package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/repository"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
	"github.com/diillson/aws-ssm-inventory-go/pkg/version"
	"github.com/jung-kurt/gofpdf"
)

// Sufixos dos arquivos gerados.
const (
	TemplateSuffix = "template"
	ManifestSuffix = "manifest"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// --- Template ---

func (r *ExportRepositoryImpl) ExportTemplateToJSON(tpl *cfn.Template, filename, outputDir string) (string, error) {
	data, err := tpl.JSON()
	if err != nil {
		return "", err
	}
	return writeFile(data, filename+"."+TemplateSuffix, outputDir, "json")
}

func (r *ExportRepositoryImpl) ExportTemplateToYAML(tpl *cfn.Template, filename, outputDir string) (string, error) {
	data, err := tpl.YAML()
	if err != nil {
		return "", err
	}
	return writeFile(data, filename+"."+TemplateSuffix, outputDir, "yaml")
}

// --- Manifesto de recursos ---

func (r *ExportRepositoryImpl) ExportManifestToCSV(result entity.SynthResult, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename+"."+ManifestSuffix, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{"Stack", "Partition", "Logical ID", "Type", "Path"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, res := range result.Resources {
		record := []string{
			result.StackName,
			partitionLabel(result.Environment.Partition),
			res.LogicalID,
			res.Type,
			res.Path,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportManifestToPDF(result entity.SynthResult, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename+"."+ManifestSuffix, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by %s | %s", version.Generator(), time.Now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Stack: %s", result.StackName)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	env := fmt.Sprintf("  Partition: %s", partitionLabel(result.Environment.Partition))
	if result.Environment.Region != "" {
		env += fmt.Sprintf("   Region: %s", result.Environment.Region)
	}
	pdf.CellFormat(0, 8, tr(env), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	widths := []float64{55, 55, 80}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	for i, h := range []string{"Logical ID", "Type", "Path"} {
		pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, res := range result.Resources {
		pdf.CellFormat(widths[0], 6, tr(truncate(res.LogicalID, 40)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(truncate(res.Type, 40)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(truncate(res.Path, 60)), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 8, fmt.Sprintf("%d resources", len(result.Resources)))

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func writeFile(data []byte, base, dir, ext string) (string, error) {
	outputFilename, err := generateFilename(base, dir, ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputFilename, data, 0644); err != nil {
		return "", fmt.Errorf("error writing %s file: %w", ext, err)
	}
	return filepath.Abs(outputFilename)
}

// generateFilename monta <dir>/<base>.<ext>, criando o diretório se necessário.
// Os nomes não levam timestamp para que sínteses repetidas sobrescrevam o mesmo arquivo.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", base, ext)), nil
}

func partitionLabel(partition string) string {
	if partition == "" {
		return "(deploy-time)"
	}
	return partition
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
