package cli

import (
	"fmt"

	"github.com/diillson/aws-ssm-inventory-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
   ____ ____  __  __   ___                      _
  / ___/ ___||  \/  | |_ _|_ ____   _____ _ __ | |_ ___  _ __ _   _
  \___ \___ \| |\/| |  | || '_ \ \ / / _ \ '_ \| __/ _ \| '__| | | |
   ___) |__) | |  | |  | || | | \ V /  __/ | | | || (_) | |  | |_| |
  |____/____/|_|  |_| |___|_| |_|\_/ \___|_| |_|\__\___/|_|   \__, |
                                                              |___/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	formattedVersion := version.FormatVersion()
	if versionStr != "" && versionStr != version.Version {
		formattedVersion = versionStr
	}
	fmt.Println(blue(fmt.Sprintf("SSM Inventory CLI (v%s)", formattedVersion)))
}
