package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/fathom/internal/inventory"
	"github.com/discochess/fathom/internal/mirror"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables under the table path",
	Long: `List the Syzygy tables found under the table path, grouped by piece
count, and flag tables that are missing their WDL or DTZ file.

With --load the engine is initialized as well, and the largest piece count
it reports is shown next to the one derived from the file names.`,
	RunE: runTables,
}

var (
	loadEngine bool
	listAll    bool
)

func init() {
	tablesCmd.Flags().BoolVar(&loadEngine, "load", false, "initialize the engine and report its piece limit")
	tablesCmd.Flags().BoolVar(&listAll, "all", false, "list every table, not only incomplete ones")
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	if err := requirePath(); err != nil {
		return err
	}

	inv, err := inventory.Scan(tbPath)
	if err != nil {
		return fmt.Errorf("scanning tables: %w", err)
	}

	if len(inv.Tables) == 0 {
		fmt.Printf("No tables found under %s.\n", tbPath)
		fmt.Println("Run 'fathom sync' to fetch tables.")
		return nil
	}

	counts := make(map[int]int)
	complete := 0
	for _, t := range inv.Tables {
		counts[t.Pieces]++
		if t.Complete() {
			complete++
		}
		if listAll || !t.Complete() {
			fmt.Printf("%-10s %d pieces  wdl=%-5v dtz=%-5v %s\n",
				t.Name, t.Pieces, t.WDL, t.DTZ, mirror.FormatBytes(t.Bytes))
		}
	}

	fmt.Printf("Table path:  %s\n", tbPath)
	for n := 3; n <= inv.MaxPieces(); n++ {
		if counts[n] > 0 {
			fmt.Printf("%d-piece:     %d\n", n, counts[n])
		}
	}
	fmt.Printf("Complete:    %d / %d\n", complete, len(inv.Tables))
	fmt.Printf("Max pieces:  %d\n", inv.MaxPieces())
	fmt.Printf("Total size:  %s\n", mirror.FormatBytes(inv.Bytes()))

	if loadEngine {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		tb, err := openTablebase(log)
		if err != nil {
			return err
		}
		defer tb.Close()
		fmt.Printf("Engine max:  %d\n", tb.MaxPieces())
	}

	return nil
}
