package cmd

import (
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/simulation"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var (
	simulationTemps      []int
	simulationStartLevel int
	simulationTarget     int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate the controller against a sequence of temperatures",
	Long: `Runs the controller with the default policy of the current configuration
against the given temperature sequence on a virtual fan, one cycle per value.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		loadOptionalConfig()

		policy := configuration.CurrentConfig.Defaults
		if cmd.Flags().Changed("target") {
			policy.TargetLevel = simulationTarget
		}
		if len(simulationTemps) <= 0 {
			ui.Fatal("No temperatures given")
		}

		steps := simulation.Run(policy, simulationStartLevel, simulationTemps)

		var rows [][]string
		levels := make([]float64, 0, len(steps))
		temperatures := make([]float64, 0, len(steps))
		for _, step := range steps {
			rows = append(rows, []string{
				strconv.Itoa(step.Cycle),
				strconv.Itoa(step.Temperature),
				strconv.Itoa(step.WindowMax),
				strconv.Itoa(step.Level),
				string(step.Direction),
				strconv.FormatBool(step.Critical),
			})
			levels = append(levels, float64(step.Level))
			temperatures = append(temperatures, float64(step.Temperature))
		}

		printTable(table.Table{
			Headers: []string{"Cycle", "Temp", "Window Max", "Level", "Change", "Critical"},
			Rows:    rows,
		})

		graph := asciigraph.PlotMany(
			[][]float64{levels, temperatures},
			asciigraph.Height(15),
			asciigraph.Caption("Level (%) / Temperature (C)"),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		)
		ui.Printfln("%s", graph)
	},
}

func init() {
	simulateCmd.Flags().IntSliceVarP(&simulationTemps, "temps", "t", []int{50, 60, 70, 78, 82, 74, 66, 60, 55}, "Temperature sequence in degrees celsius")
	simulateCmd.Flags().IntVarP(&simulationStartLevel, "level", "l", 60, "Fan level at the start of the simulation")
	simulateCmd.Flags().IntVarP(&simulationTarget, "target", "", 60, "Target level, overrides the configuration")

	rootCmd.AddCommand(simulateCmd)
}
