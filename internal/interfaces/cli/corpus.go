package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect ingested standard-contract corpora",
	}

	cmd.AddCommand(newCorpusTypesCmd(), newCorpusGetCmd())
	return cmd
}

func newCorpusTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List contract types with an ingested corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			types, err := cliCtx.Client.ContractTypes(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing contract types failed: %w", err)
			}

			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd, map[string][]string{"contract_types": types})
			}

			if len(types) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No corpora ingested yet.")
				return nil
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newCorpusGetCmd() *cobra.Command {
	var contractType string

	cmd := &cobra.Command{
		Use:   "get <global-id>",
		Short: "Fetch one chunk by its URN global ID",
		Long: "Fetches a chunk by global ID, e.g. urn:std:provide:art:012 or\n" +
			"urn:std:provide:art:012:cla:002.  Article-granularity chunks win when the\n" +
			"ID exists at both granularities.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			chunk, err := cliCtx.Client.GetChunk(cmd.Context(), contractType, args[0])
			if err != nil {
				return fmt.Errorf("chunk lookup failed: %w", err)
			}

			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd, chunk)
			}

			out := cmd.OutOrStdout()
			table := tablewriter.NewWriter(out)
			table.SetAutoWrapText(false)
			table.Append([]string{"Global ID", chunk.GlobalID})
			table.Append([]string{"Parent ID", chunk.ParentID})
			table.Append([]string{"Title", chunk.Title})
			table.Append([]string{"Order", fmt.Sprintf("%d", chunk.OrderIndex)})
			if len(chunk.References) > 0 {
				table.Append([]string{"References", fmt.Sprintf("%v", chunk.References)})
			}
			table.Render()

			fmt.Fprintln(out)
			fmt.Fprintln(out, chunk.TextNorm)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contractType, "type", "t", "", "contract type, e.g. provide, agency (required)")
	cmd.MarkFlagRequired("type")

	return cmd
}

//Personal.AI order the ending
