package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Lumos-Labs-HQ/mockforge/internal/config"
	"github.com/Lumos-Labs-HQ/mockforge/internal/generator"
	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
	"github.com/Lumos-Labs-HQ/mockforge/internal/sink"
	"github.com/Lumos-Labs-HQ/mockforge/template"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func runGenerate(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	return generate(cmd.Context(), cfg, output, cmd.OutOrStdout())
}

// generate runs one interactive batch: ensure and load the schema file,
// generate, print or write the batch, then deliver it to the endpoints.
func generate(ctx context.Context, cfg *config.Config, output string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	created, err := template.EnsureSchemaFile(cfg.SchemaPath)
	if err != nil {
		return err
	}
	if created {
		color.Yellow("⚠️  File not found at %s. Created %s.", cfg.SchemaPath, cfg.SchemaPath)
	} else {
		color.Cyan("📄 Using existing schema file: %s", cfg.SchemaPath)
	}

	s, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return err
	}

	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return err
	}
	opts.Verbose = true

	start := time.Now()
	batch, err := generator.New(opts).Batch(ctx, s, cfg.Count)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	pretty, err := json.MarshalIndent(batch, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	pretty = append(pretty, '\n')

	if output != "" {
		if err := os.WriteFile(output, pretty, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		color.Green("💾 Wrote %d record(s) to %s in %s", len(batch), output, time.Since(start).Round(time.Millisecond))
	} else if _, err := stdout.Write(pretty); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if len(cfg.Endpoints) == 0 {
		return nil
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	color.Cyan("📤 Sending %d record(s) to %d endpoint(s)...", len(batch), len(cfg.Endpoints))
	results := sink.NewClient(cfg.Sink.Timeout).Deliver(ctx, body, cfg.Endpoints)
	if failed := sink.Failed(results); len(failed) > 0 {
		color.Yellow("⚠️  %d of %d endpoint(s) did not accept the batch", len(failed), len(results))
	}
	return nil
}
