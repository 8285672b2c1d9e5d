package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/shoespec/internal/config"
	"github.com/jonathan/shoespec/internal/ingestion"
	"github.com/jonathan/shoespec/internal/observability"
	"github.com/jonathan/shoespec/internal/orchestrator"
)

var extractFileCommand = &cobra.Command{
	Use:   "extract-file",
	Short: "Extract shoe specs from a single article file",
	Long: `Reads one article (plain text, markdown or HTML) from disk, extracts its shoe specs and
prints the result. Nothing is written to the database.`,
	RunE: runExtractFileCmd,
}

var (
	extractFileInput  string
	extractFileTitle  string
	extractFileSource string
	extractFileJSON   bool
)

func init() {
	extractFileCommand.Flags().StringVarP(&extractFileInput, "in", "i", "", "Path to the article file")
	extractFileCommand.Flags().StringVarP(&extractFileTitle, "title", "t", "", "Article title (defaults to the file name)")
	extractFileCommand.Flags().StringVar(&extractFileSource, "source-link", "", "Original URL of the article")
	extractFileCommand.Flags().BoolVar(&extractFileJSON, "json", false, "Print the result as JSON")

	_ = extractFileCommand.MarkFlagRequired("in")
	rootCmd.AddCommand(extractFileCommand)
}

func runExtractFileCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd, config.Config{})
	if err != nil {
		return err
	}

	article, err := ingestion.ReadArticleFile(extractFileInput, extractFileTitle, extractFileSource)
	if err != nil {
		return err
	}
	article.Content = ingestion.CleanArticle(article.Content)

	eng, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	res := eng.orchestrator.Process(ctx, article)
	return writeResult(cmd, res, extractFileJSON)
}

func writeResult(cmd *cobra.Command, res orchestrator.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintResult(res)
	printer.PrintCoverage(res.Coverage)
	return nil
}
