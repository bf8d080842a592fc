package cli

import (
	"context"
	"path/filepath"

	"github.com/diillson/aws-ssm-inventory-go/pkg/version"

	"github.com/diillson/aws-ssm-inventory-go/internal/application/usecase"
	"github.com/diillson/aws-ssm-inventory-go/internal/shared/types"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd      *cobra.Command
	synthUseCase *usecase.SynthUseCase
	version      string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "ssm-inventory",
		Short:         "Synthesize Systems Manager Inventory CloudFormation templates",
		Long:          "Builds a CloudFormation template that collects SSM Inventory from managed instances and, optionally, enforces the permissions they need through AWS Config rules with remediation.",
		Version:       version.FormatVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "SSM Inventory version: %s\n" .Version}}`)

	// Entrada e pilha
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("stack-name", "s", "", "CloudFormation stack name (default: ssm-inventory)")
	rootCmd.PersistentFlags().String("description", "", "Template description")

	// Associação
	rootCmd.PersistentFlags().String("schedule", "", "rate()/cron() expression or a duration such as 1h (default: rate(30 minutes))")
	rootCmd.PersistentFlags().Bool("apply-only-at-cron-interval", false, "Skip the run right after the association is created")
	rootCmd.PersistentFlags().StringSlice("disable-category", nil, "Inventory categories to disable, e.g. --disable-category windowsUpdates,services")

	// Alvos
	rootCmd.PersistentFlags().StringSlice("instance-ids", nil, "Target specific instance ids (comma-separated)")
	rootCmd.PersistentFlags().String("instances-file", "", "Target the instances of a saved 'aws ec2 describe-instances' JSON output")
	rootCmd.PersistentFlags().StringSliceP("tag", "g", nil, "Target instances by tag, e.g., --tag Environment=dev (repeatable)")

	// Permissões
	rootCmd.PersistentFlags().Bool("enforce-permissions", false, "Add AWS Config rules that require an instance role with the SSM instance policy")
	rootCmd.PersistentFlags().Bool("automatic-remediation", false, "Apply remediations without manual approval")
	rootCmd.PersistentFlags().Bool("disable-remediation", false, "Create the Config rules without remediations")
	rootCmd.PersistentFlags().String("default-role-arn", "", "Existing role attached to instances without one (default: a new role)")

	// Ambiente AWS
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile whose region selects the partition")
	rootCmd.PersistentFlags().String("partition", "", "AWS partition (aws, aws-cn, aws-us-gov, ...); overrides --profile")

	// Saída
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Base name for the output files (default: stack name)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Output types: json, yaml (template), csv, pdf (resource manifest) (default: json)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the output files (default: current directory)")
	rootCmd.PersistentFlags().Bool("stdout", false, "Print the template instead of writing files")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetArgs overrides the command-line arguments, mainly for tests.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	stackName, _ := flags.GetString("stack-name")
	description, _ := flags.GetString("description")
	schedule, _ := flags.GetString("schedule")
	applyOnlyAtCronInterval, _ := flags.GetBool("apply-only-at-cron-interval")
	disableCategories, _ := flags.GetStringSlice("disable-category")
	instanceIDs, _ := flags.GetStringSlice("instance-ids")
	instancesFile, _ := flags.GetString("instances-file")
	tags, _ := flags.GetStringSlice("tag")
	enforcePermissions, _ := flags.GetBool("enforce-permissions")
	automaticRemediation, _ := flags.GetBool("automatic-remediation")
	disableRemediation, _ := flags.GetBool("disable-remediation")
	defaultRoleARN, _ := flags.GetString("default-role-arn")
	profile, _ := flags.GetString("profile")
	partition, _ := flags.GetString("partition")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	stdout, _ := flags.GetBool("stdout")

	// Convert to absolute path; empty keeps the config file value or the cwd
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:              configFile,
		StackName:               stackName,
		Description:             description,
		Schedule:                schedule,
		ApplyOnlyAtCronInterval: applyOnlyAtCronInterval,
		DisableCategories:       disableCategories,
		InstanceIDs:             instanceIDs,
		InstancesFile:           instancesFile,
		Tags:                    tags,
		EnforcePermissions:      enforcePermissions,
		AutomaticRemediation:    automaticRemediation,
		DisableRemediation:      disableRemediation,
		DefaultRoleARN:          defaultRoleARN,
		Profile:                 profile,
		Partition:               partition,
		ReportName:              reportName,
		ReportType:              reportType,
		Dir:                     dir,
		Stdout:                  stdout,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	// O banner poluiria o template impresso no stdout
	if !cliArgs.Stdout {
		displayWelcomeBanner(app.version)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = app.synthUseCase.RunSynth(ctx, cliArgs)
	return err
}

// SetSynthUseCase sets the synth use case for the CLI app.
func (app *CLIApp) SetSynthUseCase(useCase *usecase.SynthUseCase) {
	app.synthUseCase = useCase
}
