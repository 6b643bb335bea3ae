package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage ingested documentation",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested sources and their chunk counts",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsRemoveCmd = &cobra.Command{
	Use:   "remove [source]",
	Short: "Remove all chunks ingested from a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRemove,
}

var docsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge store statistics",
	Args:  cobra.NoArgs,
	RunE:  runDocsStats,
}

func init() {
	docsCmd.AddCommand(docsListCmd, docsRemoveCmd, docsStatsCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	sources, err := a.Store.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}
	if len(sources) == 0 {
		fmt.Println("No documents ingested.")
		return nil
	}

	for _, s := range sources {
		fmt.Printf("%6d  %s\n", s.ChunkCount, s.Source)
	}
	return nil
}

func runDocsRemove(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	source := args[0]
	deleted, err := a.Store.DeleteBySource(ctx, source)
	if err != nil {
		return fmt.Errorf("removing %s: %w", source, err)
	}
	if deleted == 0 {
		fmt.Printf("No chunks found for %s\n", source)
		return nil
	}
	fmt.Printf("Removed %d chunk(s) from %s\n", deleted, source)
	return nil
}

func runDocsStats(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	count, err := a.Store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}
	sections, err := a.Store.ListSections(ctx)
	if err != nil {
		return fmt.Errorf("listing sections: %w", err)
	}
	sources, err := a.Store.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	fmt.Printf("Chunks:   %d\n", count)
	fmt.Printf("Sources:  %d\n", len(sources))
	fmt.Printf("Sections: %d\n", len(sections))
	if len(sections) > 0 {
		fmt.Printf("  %s\n", strings.Join(sections, ", "))
	}
	return nil
}
