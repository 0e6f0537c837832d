package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lumos-Labs-HQ/mockforge/internal/config"
	"github.com/Lumos-Labs-HQ/mockforge/template"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	yamlFlag  bool
	forceFlag bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example schema and a mockforge config",
	Long: `Write an example schema covering every field type, a mockforge.config.json
and a .env.example listing the environment overrides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath, _ := cmd.Flags().GetString("schema")
		if yamlFlag && !cmd.Flags().Changed("schema") {
			schemaPath = strings.TrimSuffix(schemaPath, ".json") + ".yaml"
		}
		return initializeProject(".", schemaPath, forceFlag)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&yamlFlag, "yaml", false, "Write the example schema as YAML")
	initCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing files")
}

func initializeProject(dir, schemaPath string, force bool) error {
	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("mockforge project already initialized (%s exists); use --force to overwrite", config.FileName)
	}

	fullSchemaPath := filepath.Join(dir, schemaPath)
	if _, err := os.Stat(fullSchemaPath); err == nil && !force {
		color.Yellow("⚠️  %s already exists, keeping it", schemaPath)
	} else {
		if err := template.WriteSchemaFile(fullSchemaPath); err != nil {
			return err
		}
		color.Green("✅ Created %s", schemaPath)
	}

	files := map[string]string{
		config.FileName: template.GetConfig(schemaPath, config.DefaultPort),
		".env.example":  template.GetEnvTemplate(),
	}
	for _, name := range []string{config.FileName, ".env.example"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(files[name]), 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		color.Green("✅ Created %s", name)
	}

	fmt.Fprintln(color.Output)
	color.Cyan("🌱 Next: mockforge -c 10")
	return nil
}
