package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check API server readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			if err := cliCtx.Client.Ready(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %v\n", color.RedString("NOT READY"), err)
				return fmt.Errorf("server is not ready")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s  all components healthy\n", color.GreenString("READY"))
			return nil
		},
	}
}

//Personal.AI order the ending
