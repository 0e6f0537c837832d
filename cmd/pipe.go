package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/Lumos-Labs-HQ/mockforge/internal/generator"
	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
	"github.com/goccy/go-json"
)

func runPipe(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(errOut, "ERROR: %v\n", err)
		return ErrReported
	}
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		fmt.Fprintf(errOut, "ERROR: %v\n", err)
		return ErrReported
	}
	return pipe(ctx, in, out, errOut, opts)
}

// pipe reads one generation request from in and writes the compact batch to
// out. Failures are written to errOut as a single "ERROR: " line.
func pipe(ctx context.Context, in io.Reader, out, errOut io.Writer, opts generator.Options) error {
	if err := pipeBatch(ctx, in, out, opts); err != nil {
		fmt.Fprintf(errOut, "ERROR: %v\n", err)
		return ErrReported
	}
	return nil
}

func pipeBatch(ctx context.Context, in io.Reader, out io.Writer, opts generator.Options) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	req, err := schema.DecodeRequest(data)
	if err != nil {
		return err
	}

	batch, err := generator.New(opts).Batch(ctx, req.Schema, req.Count)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	encoded = append(encoded, '\n')
	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
