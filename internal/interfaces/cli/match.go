package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/ClauseMatch/pkg/client"
)

func newMatchCmd() *cobra.Command {
	var (
		contractType string
		mode         string
		textFile     string
	)

	cmd := &cobra.Command{
		Use:   "match [article text]",
		Short: "Match one user article against a standard-contract corpus",
		Long: "Runs one article of a user contract through the matching aggregator and\n" +
			"prints the coverage report: which standard articles the text corresponds to,\n" +
			"with per-sub-item score evidence and resolved cross-references.\n\n" +
			"The article text is taken from the positional arguments, or from --file,\n" +
			"or from stdin when neither is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			text, err := resolveArticleText(args, textFile, cmd)
			if err != nil {
				return err
			}

			resp, err := cliCtx.Client.Match(cmd.Context(), &client.MatchRequest{
				ContractType: contractType,
				ArticleText:  text,
				Mode:         mode,
			})
			if err != nil {
				return fmt.Errorf("match failed: %w", err)
			}

			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd, resp)
			}
			renderMatchReport(cmd, resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contractType, "type", "t", "", "contract type, e.g. provide, agency (required)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "matching granularity: clause|article (default clause)")
	cmd.Flags().StringVarP(&textFile, "file", "f", "", "read the article text from a file")
	cmd.MarkFlagRequired("type")

	return cmd
}

// resolveArticleText picks the article text source: args > --file > stdin.
func resolveArticleText(args []string, textFile string, cmd *cobra.Command) (string, error) {
	if len(args) > 0 && textFile != "" {
		return "", fmt.Errorf("positional text and --file are mutually exclusive")
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", textFile, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read article text from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("article text is required (argument, --file, or stdin)")
	}
	return text, nil
}

func renderMatchReport(cmd *cobra.Command, resp *client.MatchResponse) {
	out := cmd.OutOrStdout()

	if resp.Report == nil || !resp.Report.Matched {
		fmt.Fprintf(out, "%s  no standard article cleared the match threshold (type=%s, mode=%s)\n",
			color.YellowString("NO MATCH"), resp.ContractType, resp.Mode)
		return
	}

	fmt.Fprintf(out, "%s  %d candidate article(s) (type=%s, mode=%s)\n\n",
		color.GreenString("MATCHED"), len(resp.Report.MatchedArticles), resp.ContractType, resp.Mode)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Rank", "Score", "Article", "Title", "Sub-Items", "Deep"})
	table.SetAutoWrapText(false)

	for i, m := range resp.Report.MatchedArticles {
		deep := ""
		if m.DeepCompare {
			deep = "yes"
		}
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			colorizeScore(m.CombinedScore),
			m.ParentID,
			truncateString(m.Title, 30),
			formatSubItems(m.MatchedSubItems, m.NumSubItems),
			deep,
		})
	}

	table.Render()

	for _, m := range resp.Report.MatchedArticles {
		if len(m.References) == 0 {
			continue
		}
		fmt.Fprintf(out, "\nReferences of %s:\n", m.ParentID)
		for _, ref := range m.References {
			fmt.Fprintf(out, "  - %s (%s)\n", ref.GlobalID, ref.ItemType)
		}
	}
}

// formatSubItems renders "cla:002,cla:004/7": matched sub-item ids over the
// article's total sub-item count.
func formatSubItems(matched []string, total int) string {
	if total == 0 {
		return "-"
	}
	if len(matched) == 0 {
		return fmt.Sprintf("-/%d", total)
	}
	return fmt.Sprintf("%s/%d", strings.Join(matched, ","), total)
}

//Personal.AI order the ending
