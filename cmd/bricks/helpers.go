// Shared helpers for bricks CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/internal/catalog"
	"github.com/jfexwana/lego-manager/internal/userstate"
)

// app bundles the opened stores for one command invocation. The caller must
// defer app.close().
type app struct {
	catalog *catalog.Store
	docs    *userstate.DocStore
	manager *userstate.Manager
}

func (a *app) close() {
	if a.docs != nil {
		a.docs.Close()
	}
	if a.catalog != nil {
		a.catalog.Close()
	}
}

// openApp resolves the data directory and opens both stores. The user-state
// document is loaded (and migrated if needed) before returning.
func openApp(cmd *cobra.Command) (*app, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cat, err := catalog.Open(dataDir, logger)
	if err != nil {
		return nil, err
	}
	docs, err := userstate.OpenDocStore(dataDir, logger)
	if err != nil {
		cat.Close()
		return nil, err
	}

	a := &app{
		catalog: cat,
		docs:    docs,
		manager: userstate.NewManager(docs, cat, logger),
	}
	if err := a.manager.Load(cmd.Context()); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// httpClient builds the download client from configuration.
func httpClient() *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSecs) * time.Second}
}

// printJSON renders v indented to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
