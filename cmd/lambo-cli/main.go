package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lambo-cli",
	Short: "Sequential multi-objective sequence optimization",
	Long: `A command-line interface for running sequential multi-objective
evolutionary optimization over discrete sequences.

Each run maintains a labeled candidate pool, evolves an active working set
with an NSGA-II inner loop, and tracks the Pareto frontier with hypervolume,
R2, and HSR convergence indicators round by round.`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(newRunCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
