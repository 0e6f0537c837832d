package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/mockforge/internal/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.0"
)

// ErrReported is returned when the failure was already written for the user
// and main only needs to exit non-zero.
var ErrReported = errors.New("error already reported")

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════╗",
		"║   █▀▄▀█ █▀█ █▀▀ █▄▀   █▀▀ █▀█ █▀█ █▀▀ █▀▀             ║",
		"║   █ ▀ █ █▄█ █▄▄ █ █   █▀  █▄█ █▀▄ █▄█ ██▄             ║",
		"║                                                      ║",
		"║        Schema-driven mock data for your APIs         ║",
		"╚══════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Fprint(color.Output, "                ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "mockforge",
	Short: "Generate mock JSON records from a declarative schema",
	Long: `
mockforge generates batches of realistic JSON records from a schema that maps
field names to field specifications (string, integer, float, boolean, uuid,
name, email, phone, date, image_url, file_url, array, object).

Interactive mode:
  mockforge -s users.json -c 10
  mockforge -s users.yaml -c 50 -a http://localhost:8080/users,http://localhost:9090/ingest

Pipe mode (stdin is not a terminal):
  echo '{"schema": {"id": {"type": "uuid"}}, "count": 3}' | mockforge

If the schema file does not exist, an example schema covering every type is
written to it first.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("mockforge version %s\n", Version)
			return nil
		}

		if usePipe(cmd) {
			return runPipe(cmd.Context(), os.Stdin, os.Stdout, os.Stderr)
		}
		return runGenerate(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// usePipe selects pipe mode: forced with --stdin, otherwise when stdin is
// not a terminal and no generation flag was given.
func usePipe(cmd *cobra.Command) bool {
	if forced, _ := cmd.Flags().GetBool("stdin"); forced {
		return true
	}
	for _, name := range []string{"schema", "count", "api", "output"} {
		if cmd.Flags().Changed(name) {
			return false
		}
	}
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Status lines go to stderr so stdout only carries generated JSON.
	color.Output = colorable.NewColorableStderr()
	color.Error = colorable.NewColorableStderr()
	errFd := os.Stderr.Fd()
	color.NoColor = os.Getenv("TERM") == "dumb" || (!isatty.IsTerminal(errFd) && !isatty.IsCygwinTerminal(errFd))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./mockforge.config.json)")
	rootCmd.PersistentFlags().StringP("schema", "s", config.DefaultSchemaPath, "Path to the schema file (JSON or YAML)")
	rootCmd.PersistentFlags().Int64("seed", 0, "Seed for reproducible output (0 picks a random seed)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored status output")

	rootCmd.Flags().IntP("count", "c", 1, "Number of records to generate")
	rootCmd.Flags().StringP("api", "a", "", "Comma-separated endpoint URLs to POST the batch to")
	rootCmd.Flags().StringP("output", "o", "", "Write the batch to a file instead of stdout")
	rootCmd.Flags().Bool("stdin", false, "Read a {\"schema\", \"count\"} request from stdin")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")

	viper.BindPFlag("schema_path", rootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("count", rootCmd.Flags().Lookup("count"))
	viper.BindPFlag("endpoints", rootCmd.Flags().Lookup("api"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("mockforge.config")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
	}
}

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
