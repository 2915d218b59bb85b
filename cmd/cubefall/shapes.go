package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefall/internal/engine"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "List the piece catalog",
	Long:  `Shows every piece archetype with its block offsets and color.`,
	Args:  cobra.NoArgs,
	Run:   runShapes,
}

func runShapes(_ *cobra.Command, _ []string) {
	catalog := engine.Catalog()

	fmt.Println("Pieces:")
	fmt.Println()

	fmt.Printf("  %-4s  %-8s  %s\n", "Name", "Color", "Blocks (x,y,z)")
	fmt.Printf("  %-4s  %-8s  %s\n", "----", "-----", "--------------")

	for _, a := range catalog {
		blocks := make([]string, len(a.Shape.Blocks))
		for i, b := range a.Shape.Blocks {
			blocks[i] = b.String()
		}
		fmt.Printf("  %-4s  %-8s  %s\n", a.Name, a.Shape.Color.Hex(), strings.Join(blocks, " "))
	}

	fmt.Println()
	fmt.Println("Offsets are relative to the pivot; pieces spawn two rows below the top.")
}
