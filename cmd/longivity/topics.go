package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topic taxonomy in classification order",
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := loadTaxonomy()
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("keywords")

		fmt.Fprintf(os.Stdout, "%-3s  %-34s  %-12s  %-3s  %s\n", "#", "Topic", "Category", "Hot", "Label")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for i, t := range tx.Topics {
			hot := ""
			if tx.IsHot(t.ID) {
				hot = "yes"
			}
			fmt.Fprintf(os.Stdout, "%-3d  %-34s  %-12s  %-3s  %s\n", i+1, t.ID, t.Category, hot, t.Label)
			if verbose {
				fmt.Fprintf(os.Stdout, "     %s\n", strings.Join(t.Keywords, ", "))
			}
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().Bool("keywords", false, "also print each topic's keywords")
	rootCmd.AddCommand(topicsCmd)
}
