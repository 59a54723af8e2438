package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled rename runs",
	Long: `Lists all journal entries, newest first, with each entry's id,
timestamp, kind, and a preview of its moves. Entry ids can be passed to
'renamix undo'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openJournal()
		if err != nil {
			return err
		}
		defer log.Close()

		newOutput().History(log.List())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
