package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"starboard-backend/lib/serviceutil"
	"starboard-backend/services/ranking/charts"

	"github.com/spf13/cobra"
)

var chartsOut *string

func init() {
	chartsOut = chartsCmd.Flags().String("out", "charts", "The directory to write chart html files to.")
	rootCmd.AddCommand(chartsCmd)
}

var chartsCmd = &cobra.Command{
	Use:   "charts [--out <dir>]",
	Short: "Renders every chart to a standalone html file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		ds := loadDataset(cmd.Context(), cfg)

		err := os.MkdirAll(*chartsOut, 0755)
		if err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}

		for _, name := range charts.Names() {
			chart, _ := charts.Build(name, ds)

			path := filepath.Join(*chartsOut, name+".html")
			f, err := os.Create(path)
			if err != nil {
				serviceutil.Fatal("failed to create chart file", err)
			}
			err = chart.Render(f)
			f.Close()
			if err != nil {
				serviceutil.Fatal("failed to render chart", err)
			}
			slog.Info("wrote chart", "path", path)
		}
	},
}
