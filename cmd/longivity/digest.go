// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/HelloWaord1/longivity/internal/digest"
	"github.com/HelloWaord1/longivity/internal/store"
)

var digestCmd = &cobra.Command{
	Use:   "digest [date]",
	Short: "Print a stored daily digest",
	Long: `Digest prints the markdown digest written by run for the given date
(YYYY-MM-DD, default today). Use --list to show the available dates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if list, _ := cmd.Flags().GetBool("list"); list {
		ids, err := st.ListIDs(ctx, store.KindDigest)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(os.Stdout, id)
		}
		return nil
	}

	date := digest.ID(time.Now())
	if len(args) == 1 {
		if _, err := time.Parse(digest.DateLayout, args[0]); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
		}
		date = args[0]
	}
	md, err := st.Read(ctx, store.KindDigest, date)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no digest for %s", date)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(md)
	return err
}

func init() {
	digestCmd.Flags().Bool("list", false, "list stored digest dates")
	rootCmd.AddCommand(digestCmd)
}
