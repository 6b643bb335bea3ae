package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/retrieve"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question and answer session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
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
		return fmt.Errorf("checking knowledge store: %w", err)
	}

	fmt.Println("Game Dev Documentation Assistant")
	fmt.Printf("Indexed chunks: %d\n", count)
	if count == 0 {
		fmt.Println("The store is empty; run 'gamedev-rag ingest <path>' first.")
	}
	fmt.Println("Type your question, or 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			// EOF (Ctrl+D)
			fmt.Println("\nGoodbye!")
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") || strings.EqualFold(question, "quit") {
			fmt.Println("Goodbye!")
			break
		}

		answer, err := a.Assistant.Ask(ctx, question)
		if err != nil {
			if errors.Is(err, retrieve.ErrEmptyIndex) {
				fmt.Fprintln(os.Stderr, "No documents ingested yet; run 'gamedev-rag ingest <path>' first.")
				continue
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Println(renderAnswer(answer))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
