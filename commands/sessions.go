package commands

import (
	"github.com/penwyp/go-deckview/internal/data/aggregator"
	"github.com/penwyp/go-deckview/internal/presentation/formatter"
	"github.com/penwyp/go-deckview/internal/presentation/interaction"
	"github.com/spf13/cobra"
)

var (
	sessionsOutput  string
	sessionsGroupBy string
	sessionsSort    string
	sessionsDesc    bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the sessions behind a chart",
	Long: `Lists the active sessions of an application in the selected window,
one row per interval between a start or resume and the matching stop or suspend.

Examples:
  go-deckview sessions --app editor                     # Last 14 days as a table
  go-deckview sessions --app editor --output summary    # Daily totals
  go-deckview sessions --app editor --output summary --group-by week --from -60d
  go-deckview sessions --app editor --sort duration --desc
  go-deckview sessions --app editor --from -7d --output csv > week.csv`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().StringVarP(&appRef, "app", "a", "",
		"Application id or name (may be omitted when only one is tracked)")
	sessionsCmd.Flags().StringVar(&fromDate, "from", "",
		"First day listed (YYYY-MM-DD, today, yesterday, -Nd)")
	sessionsCmd.Flags().StringVar(&toDate, "to", "",
		"Last day listed, inclusive (default today)")
	sessionsCmd.Flags().BoolVar(&includeOpen, "include-open", false,
		"List a still running session up to now")
	sessionsCmd.Flags().StringVarP(&sessionsOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	sessionsCmd.Flags().StringVar(&sessionsGroupBy, "group-by", "day",
		"Summary unit (day, week, month)")
	sessionsCmd.Flags().StringVar(&sessionsSort, "sort", "start",
		"Sort sessions by field (start, duration)")
	sessionsCmd.Flags().BoolVar(&sessionsDesc, "desc", false,
		"Sort in descending order")
}

func runSessions(cmd *cobra.Command, args []string) error {
	f, err := formatter.New(sessionsOutput)
	if err != nil {
		return err
	}
	groupBy, err := aggregator.ParseGroupBy(sessionsGroupBy)
	if err != nil {
		return err
	}
	sorter := interaction.NewSessionSorter()
	field, err := interaction.ParseSortField(sessionsSort)
	if err != nil {
		return err
	}
	sorter.SetField(field)
	if sessionsDesc {
		sorter.SetOrder(interaction.SortDescending)
	}

	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	req, err := chartRequest(env.cfg)
	if err != nil {
		return err
	}

	s, err := env.viewer.Sessions(cmd.Context(), req)
	if err != nil {
		return err
	}
	report := env.viewer.Report(s)
	report.GroupBy = groupBy
	sorter.Sort(report.Sessions)
	return f.Format(cmd.OutOrStdout(), report)
}
