package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/quizforge/internal/llm"
)

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models available to the configured API key",
		RunE:  runModels,
	}
	addLLMFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func runModels(cmd *cobra.Command, _ []string) error {
	v := setup(cmd)
	ctx := cmd.Context()

	gen, err := newGenerator(ctx, llmOptions(v))
	if err != nil {
		return err
	}
	defer gen.Close()

	names, err := gen.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	candidates := make(map[string]bool, len(llm.DefaultModels))
	for _, m := range llm.DefaultModels {
		candidates[m] = true
	}
	for _, n := range names {
		mark := " "
		if candidates[n] {
			mark = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", mark, n)
	}
	return nil
}
