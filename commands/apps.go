package commands

import (
	"github.com/penwyp/go-deckview/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

var appsOutput string

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List tracked applications",
	Long: `Lists the applications found in the activity database or event logs.
Either the id or the name can be passed to --app.`,
	RunE: runApps,
}

func init() {
	rootCmd.AddCommand(appsCmd)

	appsCmd.Flags().StringVarP(&appsOutput, "output", "o", "table",
		"Output format (table, json, csv)")
}

func runApps(cmd *cobra.Command, args []string) error {
	f, err := formatter.New(appsOutput)
	if err != nil {
		return err
	}

	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	apps, err := env.viewer.Apps(cmd.Context())
	if err != nil {
		return err
	}
	return f.FormatApps(cmd.OutOrStdout(), apps)
}
