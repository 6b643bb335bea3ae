// Package app wires configuration, storage, embedding and generation
// into the running assistant.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/assistant"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/config"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/ingest"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
)

// App holds the assembled application. Create with Setup and release
// with Close.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBPool    *pgxpool.Pool
	Genkit    *genkit.Genkit
	Store     *knowledge.Store
	Assistant *assistant.Assistant
	Ingestor  *ingest.Ingestor

	dbCleanup func()
}

// Close releases everything Setup acquired. Safe to call on a
// partially initialized App.
func (a *App) Close() error {
	if a.dbCleanup != nil {
		a.dbCleanup()
		a.dbCleanup = nil
	}
	return nil
}
