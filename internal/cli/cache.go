package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statmap/pkg/cache"
	"github.com/matzehuels/statmap/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the dataset, result and legend cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePruneCommand())

	return cmd
}

// fileCache opens the file cache selected by --cache. Maintenance commands
// only work on the file backend.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	dir := c.cacheSpec
	switch {
	case dir == "":
		dir = cache.DefaultDir()
	case strings.HasPrefix(dir, "file://"):
		dir = strings.TrimPrefix(dir, "file://")
	case dir == "none" || dir == "off" || strings.Contains(dir, "://"):
		return nil, errors.New(errors.ErrCodeInvalidInput, "cache maintenance needs a file cache, got %q", dir)
	}
	return cache.NewFileCache(dir)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			if st.Entries == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", st.Entries)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fc.Dir())
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts and disk usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}

			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", humanize.Comma(int64(st.Entries)))
			printKeyValue("Expired", humanize.Comma(int64(st.Expired)))
			printKeyValue("Size", humanize.Bytes(uint64(st.Bytes)))

			types := make([]string, 0, len(st.ByType))
			for t := range st.ByType {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				printDetail("%-10s %d", t, st.ByType[t])
			}
			if st.Expired > 0 {
				fmt.Fprintln(stdout)
				printNextStep("Remove expired entries", appName+" cache prune")
			}
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			n, err := fc.Prune()
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			if n == 0 {
				printInfo("No expired entries")
				return nil
			}
			printSuccess("Removed %d expired entries", n)
			return nil
		},
	}
}
