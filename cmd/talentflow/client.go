package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Vikas-Kain/TalentFlow/internal/config"
	"github.com/Vikas-Kain/TalentFlow/internal/remote"
	"github.com/Vikas-Kain/TalentFlow/internal/workflow"
)

// apiClient is one CLI session against a running server: the raw Remote
// Store client and the workflow core layered on it.
type apiClient struct {
	remote *remote.Client
	core   *workflow.Core
}

var newAPIClient = func() (*apiClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg.Log.Level)
	return newClientFor(cfg.ServerURL(), &http.Client{Timeout: 30 * time.Second}), nil
}

func newClientFor(baseURL string, httpClient *http.Client) *apiClient {
	rc := remote.New(baseURL, httpClient)
	return &apiClient{remote: rc, core: workflow.New(rc, slog.Default())}
}

// settle waits for issued mutations and prints any notifications they
// raised.
func (c *apiClient) settle() {
	c.core.Wait()
	for _, n := range c.core.Session.Drain() {
		printNotice(n)
	}
}

// explain adds a hint to transport errors.
func explain(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w (is `talentflow start` running?)", err)
	}
	return err
}
