package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"splice/internal/driver"
)

const cacheApp = "splice"

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the expansion cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached expansion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := driver.OpenDiskCache(cacheApp)
		if err != nil {
			return err
		}
		if err := c.DropAll(); err != nil {
			return fmt.Errorf("failed to clean %s: %w", c.Dir(), err)
		}
		if !quiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", c.Dir())
		}
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Keep only the most recent cached expansions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keep, err := cmd.Flags().GetInt("keep")
		if err != nil {
			return fmt.Errorf("failed to get keep flag: %w", err)
		}
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}
		c, err := driver.OpenDiskCache(cacheApp)
		if err != nil {
			return err
		}
		removed, err := c.Prune(keep)
		if err != nil {
			return fmt.Errorf("failed to prune %s: %w", c.Dir(), err)
		}
		if !quiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", removed)
		}
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().Int("keep", 1000, "number of entries to keep")
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}
