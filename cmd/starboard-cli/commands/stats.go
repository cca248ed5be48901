package commands

import (
	"fmt"
	"os"

	"starboard-backend/lib/serviceutil"
	"starboard-backend/services/ranking"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

func summaryRow(s ranking.Summary) table.Row {
	return table.Row{
		s.Campus,
		s.Students,
		s.ActiveStudents,
		fmt.Sprintf("%.1f", s.PointsMean),
		s.PointsMax,
		s.GoldStars,
		s.SilverStars,
		s.TotalStars,
		fmt.Sprintf("%.1f%%", s.SuccessRate),
		fmt.Sprintf("%.1f%%", s.ParticipationRate),
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints global and per campus leaderboard metrics.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		ds := loadDataset(cmd.Context(), cfg)

		global, err := ranking.GlobalMetrics(ds)
		if err != nil {
			serviceutil.Fatal("failed to aggregate metrics", err)
		}
		campuses, err := ranking.CampusMetrics(ds)
		if err != nil {
			serviceutil.Fatal("failed to aggregate metrics", err)
		}

		fmt.Printf("Day %d\n", ranking.CurrentDay(ds))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Campus", "Students", "Active", "Points Mean", "Points Max",
			"Gold", "Silver", "Stars", "Success", "Participation",
		})
		t.AppendRow(summaryRow(global))
		for _, campus := range campuses {
			t.AppendRow(summaryRow(campus))
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
