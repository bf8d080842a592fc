package usecase

import (
	"context"
	"fmt"

	"github.com/diillson/aws-ssm-inventory-go/internal/domain/construct"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/entity"
	"github.com/diillson/aws-ssm-inventory-go/internal/domain/repository"
	"github.com/diillson/aws-ssm-inventory-go/internal/shared/types"
	"github.com/diillson/aws-ssm-inventory-go/pkg/cfn"
)

// Tipos de relatório suportados.
const (
	ReportJSON = "json"
	ReportYAML = "yaml"
	ReportCSV  = "csv"
	ReportPDF  = "pdf"
)

// SynthUseCase synthesizes the inventory stack and exports it.
type SynthUseCase struct {
	awsRepo    repository.AWSRepository
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
}

// NewSynthUseCase creates a new synth use case.
func NewSynthUseCase(
	awsRepo repository.AWSRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *SynthUseCase {
	return &SynthUseCase{
		awsRepo:    awsRepo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
	}
}

// RunSynth carrega a configuração, sintetiza o template e exporta os relatórios pedidos.
// Com args.Stdout apenas o template é impresso; avisos e erros seguem para os logs.
func (uc *SynthUseCase) RunSynth(ctx context.Context, args *types.CLIArgs) (*entity.SynthResult, error) {
	if args.Stdout {
		quiet := *uc
		quiet.console = stdoutConsole{uc.console}
		return quiet.runSynth(ctx, args)
	}
	return uc.runSynth(ctx, args)
}

func (uc *SynthUseCase) runSynth(ctx context.Context, args *types.CLIArgs) (*entity.SynthResult, error) {
	cfg := &types.Config{}
	if args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := MergeArgs(cfg, args); err != nil {
		return nil, err
	}
	uc.warnIgnoredRemediation(cfg)

	env, err := uc.InitializeEnvironment(ctx, args)
	if err != nil {
		return nil, err
	}

	status := uc.console.Status(fmt.Sprintf("Synthesizing stack %s...", cfg.StackName))

	stack, _, err := uc.buildStack(cfg, env)
	if err != nil {
		status.Stop()
		return nil, err
	}

	tpl, err := stack.Synth()
	if err != nil {
		status.Stop()
		return nil, fmt.Errorf("error synthesizing stack %s: %w", cfg.StackName, err)
	}

	status.Stop()

	result := &entity.SynthResult{
		StackName:   cfg.StackName,
		Environment: env,
		Resources:   summarize(stack),
	}

	if env.Partition == "" {
		uc.console.LogInfo("No partition resolved; ARNs are built from AWS::Partition at deploy time")
	}

	if args.Stdout {
		return result, uc.printTemplate(tpl, cfg.ReportType)
	}

	// Exibe o resumo dos recursos
	uc.console.Print(uc.createResourceTable(result.Resources).Render())

	result.Files = uc.export(tpl, *result, cfg)
	return result, nil
}

// InitializeEnvironment determines the partition the template is synthesized for.
// An explicit partition wins over the profile; without either the partition is left
// to deploy time.
func (uc *SynthUseCase) InitializeEnvironment(ctx context.Context, args *types.CLIArgs) (entity.Environment, error) {
	if args.Partition != "" {
		return entity.Environment{Profile: args.Profile, Partition: args.Partition}, nil
	}
	if args.Profile == "" {
		return entity.Environment{}, nil
	}

	found := false
	for _, profile := range uc.awsRepo.GetAWSProfiles() {
		if profile == args.Profile {
			found = true
			break
		}
	}
	if !found {
		return entity.Environment{}, fmt.Errorf("%w: %s", types.ErrProfileNotFound, args.Profile)
	}

	env, err := uc.awsRepo.ResolveEnvironment(ctx, args.Profile)
	if err != nil {
		return entity.Environment{}, err
	}
	uc.console.LogInfo("Using profile %s (region %s, partition %s)", env.Profile, env.Region, env.Partition)
	return env, nil
}

// warnIgnoredRemediation avisa quando há opções de remediação sem a aplicação de
// permissões habilitada.
func (uc *SynthUseCase) warnIgnoredRemediation(cfg *types.Config) {
	pe := cfg.PermissionEnforcement
	if pe == nil || pe.Enabled {
		return
	}
	rc := pe.Remediation
	if rc.Enabled == nil && !rc.Automatic && rc.DefaultRoleARN == "" && rc.DefaultRoleName == "" {
		return
	}
	uc.console.LogWarning("Remediation settings are ignored while permission enforcement is disabled; use --enforce-permissions or set permission_enforcement.enabled")
}

func summarize(stack *construct.Stack) []entity.ResourceSummary {
	resources := stack.Resources()
	summary := make([]entity.ResourceSummary, 0, len(resources))
	for _, res := range resources {
		summary = append(summary, entity.ResourceSummary{
			LogicalID: res.LogicalID(),
			Type:      res.Type(),
			Path:      res.Node().Path(),
		})
	}
	return summary
}

func (uc *SynthUseCase) createResourceTable(resources []entity.ResourceSummary) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("Logical ID")
	table.AddColumn("Type")
	table.AddColumn("Path")
	for _, res := range resources {
		table.AddRow(res.LogicalID, res.Type, res.Path)
	}
	return table
}

// printTemplate escreve o template no stdout, em YAML se esse for o primeiro formato pedido.
func (uc *SynthUseCase) printTemplate(tpl *cfn.Template, reportTypes []string) error {
	encode := tpl.JSON
	if len(reportTypes) > 0 && reportTypes[0] == ReportYAML {
		encode = tpl.YAML
	}
	data, err := encode()
	if err != nil {
		return err
	}
	uc.console.Print(string(data))
	return nil
}

// export grava cada formato pedido. Falhas são registradas e não interrompem os demais.
func (uc *SynthUseCase) export(tpl *cfn.Template, result entity.SynthResult, cfg *types.Config) []string {
	var files []string
	for _, reportType := range cfg.ReportType {
		var (
			path string
			err  error
		)
		switch reportType {
		case ReportJSON:
			path, err = uc.exportRepo.ExportTemplateToJSON(tpl, cfg.ReportName, cfg.Dir)
		case ReportYAML:
			path, err = uc.exportRepo.ExportTemplateToYAML(tpl, cfg.ReportName, cfg.Dir)
		case ReportCSV:
			path, err = uc.exportRepo.ExportManifestToCSV(result, cfg.ReportName, cfg.Dir)
		case ReportPDF:
			path, err = uc.exportRepo.ExportManifestToPDF(result, cfg.ReportName, cfg.Dir)
		}
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", reportType, err)
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", reportType, path)
		files = append(files, path)
	}
	return files
}

// stdoutConsole descarta logs de info e de sucesso e o spinner; avisos, erros e o
// template passam.
type stdoutConsole struct {
	types.ConsoleInterface
}

func (stdoutConsole) LogInfo(string, ...interface{}) {}

func (stdoutConsole) LogSuccess(string, ...interface{}) {}

func (stdoutConsole) Status(string) types.StatusHandle {
	return silentStatus{}
}

type silentStatus struct{}

func (silentStatus) Update(string) {}

func (silentStatus) Stop() {}
