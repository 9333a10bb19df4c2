package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/ClauseMatch/pkg/client"
)

func newIngestCmd() *cobra.Command {
	var (
		contractType string
		unitsFile    string
		rawFile      string
		source       string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest one standard contract into its corpus and indexes",
		Long: "Runs the full ingestion pipeline for one standard contract: parse the\n" +
			"extractor's unit stream, chunk at article and clause granularity, embed,\n" +
			"rebuild the dense and lexical indexes, and swap them in atomically.\n\n" +
			"The unit stream is the JSON array produced by the DOCX extractor\n" +
			"(objects with text/bold/indent/table fields).  --raw optionally attaches\n" +
			"the original document for the audit archive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			units, err := os.ReadFile(unitsFile)
			if err != nil {
				return fmt.Errorf("failed to read units file %s: %w", unitsFile, err)
			}
			if !json.Valid(units) {
				return fmt.Errorf("units file %s is not valid JSON", unitsFile)
			}

			req := &client.IngestRequest{
				ContractType:   contractType,
				Units:          json.RawMessage(units),
				SourceFilename: source,
			}

			if rawFile != "" {
				raw, err := os.ReadFile(rawFile)
				if err != nil {
					return fmt.Errorf("failed to read raw document %s: %w", rawFile, err)
				}
				req.RawDocument = raw
				if req.SourceFilename == "" {
					req.SourceFilename = filepath.Base(rawFile)
				}
			}

			start := time.Now()
			resp, err := cliCtx.Client.Ingest(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}

			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd, resp)
			}
			renderIngestSummary(cmd, resp, time.Since(start))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contractType, "type", "t", "", "contract type, e.g. provide, agency (required)")
	cmd.Flags().StringVarP(&unitsFile, "units", "u", "", "unit-stream JSON file from the extractor (required)")
	cmd.Flags().StringVarP(&rawFile, "raw", "r", "", "original contract document to archive")
	cmd.Flags().StringVar(&source, "source", "", "source filename recorded with the archive")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("units")

	return cmd
}

func renderIngestSummary(cmd *cobra.Command, resp *client.IngestResponse, elapsed time.Duration) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s  run %s for contract type %q\n",
		color.GreenString("INGESTED"), resp.RunID, resp.ContractType)
	fmt.Fprintf(out, "  article chunks: %d\n", resp.ArticleChunks)
	fmt.Fprintf(out, "  clause chunks:  %d\n", resp.ClauseChunks)
	if resp.SkippedVectors > 0 {
		fmt.Fprintf(out, "  skipped vectors: %d\n", resp.SkippedVectors)
	}
	if resp.FailedVectors > 0 {
		fmt.Fprintf(out, "  %s %d\n", color.YellowString("failed vectors:"), resp.FailedVectors)
	}
	if resp.ArchiveKey != "" {
		fmt.Fprintf(out, "  archive: %s\n", resp.ArchiveKey)
	}
	fmt.Fprintf(out, "  server time: %dms (total %v)\n", resp.DurationMS, elapsed.Round(time.Millisecond))
}

//Personal.AI order the ending
