package cmd

import (
	"fmt"

	"github.com/N3ro47/lockfree/harness"
	"github.com/N3ro47/lockfree/std/utils"
	"github.com/spf13/cobra"
)

const banner = `
  _  __
 | |/ _| __ _
 | | |_ / _  |
 | |  _| (_| |
 |_|_|  \__, |
           |_|

Lock-free and two-lock MPMC queues
`

var CmdLfq = &cobra.Command{
	Use:     "lfq",
	Short:   "Concurrent FIFO queue stress tool",
	Long:    banner[1:],
	Version: utils.LfqVersion,
}

func init() {
	cobra.EnableCommandSorting = false
	CmdLfq.Root().CompletionOptions.HiddenDefaultCmd = true
	CmdLfq.PersistentFlags().BoolP("help", "h", false, "Print usage")
	CmdLfq.PersistentFlags().Lookup("help").Hidden = true
	CmdLfq.SilenceUsage = true

	CmdLfq.AddGroup(&cobra.Group{ID: "run", Title: "Stress Harness"})
	CmdLfq.AddCommand(harness.CmdStress())
	CmdLfq.AddCommand(harness.CmdHistory())

	CmdLfq.AddCommand(cmdVersion())
}

func cmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lfq %s\n", utils.LfqVersion)
		},
	}
}
