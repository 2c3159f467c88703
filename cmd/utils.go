package cmd

import (
	"fmt"

	"github.com/rubiojr/xmlsearch/pkg/config"
	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/realtime"
	"github.com/rubiojr/xmlsearch/pkg/search"
)

// loadService reads the config at configPath and builds a search service
// for it.
func loadService(configPath string, sink diag.Sink, hub *realtime.Hub) (*config.Config, *search.Service, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	svc, err := search.FromConfig(cfg, sink, hub)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, svc, nil
}
