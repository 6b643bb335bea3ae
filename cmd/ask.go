package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/retrieve"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question is empty")
	}

	answer, err := a.Assistant.Ask(ctx, question)
	if err != nil {
		if errors.Is(err, retrieve.ErrEmptyIndex) {
			return errors.New("no documents ingested yet; run 'gamedev-rag ingest <path>' first")
		}
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Println(renderAnswer(answer))
	return nil
}
