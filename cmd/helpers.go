package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/store"
)

// loadKnowledge reads and validates the configured knowledge base file.
func loadKnowledge() (*kb.KnowledgeBase, error) {
	return kb.Load(cfg.Knowledge.Path)
}

// openStore opens the configured evaluation store and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "", "sqlite":
		s, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := store.NewPostgresFromURL(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, eris.Errorf("unknown store driver %q (want sqlite or postgres)", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
