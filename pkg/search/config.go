package search

import (
	"fmt"

	"github.com/rubiojr/xmlsearch/pkg/config"
	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/realtime"
	"github.com/rubiojr/xmlsearch/pkg/record"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/source"
)

// FromConfig validates cfg and builds a service reading cfg.Source. Load
// failures and field parse failures go to sink, engine and session reports
// too. hub may be nil.
func FromConfig(cfg *config.Config, sink diag.Sink, hub *realtime.Hub) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loader, err := source.NewLoader(source.LoaderConfig{
		Fetcher:      source.NewFetcher(cfg.Source, cfg.FetchTimeout.Duration),
		ItemSelector: cfg.ItemSelector,
		Mapper: record.MapperConfig{
			Fields:     record.FieldMap(cfg.FieldMap),
			DateField:  cfg.DateField,
			DateFormat: cfg.DateFormat,
		},
		Sink: sink,
	})
	if err != nil {
		return nil, err
	}
	return NewService(loader, Options{
		Fields:        cfg.Fields(),
		SearchFields:  cfg.SearchFields,
		DisplayFields: cfg.DisplayFieldNames(),
		Paginate:      cfg.Pagination,
		PageSize:      cfg.PageSize,
		Highlight:     cfg.HighlightEnabled(),
		Session: session.Options{
			SearchParam: cfg.SearchParam,
			DefaultSort: cfg.DefaultSort(),
			Sink:        sink,
		},
		Sink: sink,
		Hub:  hub,
	}), nil
}
