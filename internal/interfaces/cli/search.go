package cli

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/ClauseMatch/pkg/client"
)

func newSearchCmd() *cobra.Command {
	var (
		contractType string
		topK         int
		denseWeight  float64
		granularity  string
		field        string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Hybrid search over one standard-contract corpus",
		Long: "Runs a hybrid (dense + BM25) search against the selected contract type's\n" +
			"corpus and prints the fused ranking.  A dense weight of 1.0 reproduces pure\n" +
			"vector ranking, 0.0 pure lexical ranking.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			req := &client.SearchRequest{
				ContractType: contractType,
				Query:        strings.Join(args, " "),
				TopK:         topK,
				Granularity:  granularity,
				Field:        field,
			}
			if cmd.Flags().Changed("dense-weight") {
				if denseWeight < 0 || denseWeight > 1 {
					return fmt.Errorf("dense-weight must be in [0, 1], got %v", denseWeight)
				}
				req.DenseWeight = &denseWeight
			}

			resp, err := cliCtx.Client.Search(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd, resp)
			}
			renderSearchResults(cmd, resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contractType, "type", "t", "", "contract type, e.g. provide, agency (required)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "maximum number of results (0 = server default)")
	cmd.Flags().Float64VarP(&denseWeight, "dense-weight", "w", 0, "dense signal weight in [0, 1] (unset = server default)")
	cmd.Flags().StringVarP(&granularity, "granularity", "g", "", "corpus granularity: article|clause (default clause)")
	cmd.Flags().StringVarP(&field, "field", "f", "", "dense index field: body|title (default body)")
	cmd.MarkFlagRequired("type")

	return cmd
}

func renderSearchResults(cmd *cobra.Command, resp *client.SearchResponse) {
	out := cmd.OutOrStdout()

	if len(resp.Results) == 0 {
		fmt.Fprintf(out, "No results for contract type %q.\n", resp.ContractType)
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Rank", "Combined", "Dense", "Sparse", "Global ID", "Title"})
	table.SetAutoWrapText(false)

	for i, r := range resp.Results {
		title := ""
		if r.Chunk != nil {
			title = r.Chunk.Title
		}
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			colorizeScore(r.CombinedScore),
			fmt.Sprintf("%.4f", r.DenseScore),
			fmt.Sprintf("%.4f", r.SparseScore),
			r.GlobalID,
			truncateString(title, 40),
		})
	}

	table.Render()

	fmt.Fprintf(out, "\n%d results (granularity=%s, dense_weight=%.2f)\n",
		resp.Count, resp.Granularity, resp.DenseWeight)
}

//Personal.AI order the ending
