// Package source acquires the raw XML document, splits it into item nodes
// and maps every node to a record.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/log"
	"github.com/rubiojr/xmlsearch/pkg/record"
)

type LoaderConfig struct {
	Fetcher      Fetcher
	ItemSelector string
	Mapper       record.MapperConfig
	Sink         diag.Sink
}

// Result is the outcome of a successful load.
type Result struct {
	Records []record.Record
	// FieldFailures counts fields that could not be parsed.
	FieldFailures int
	Location      string
	LoadedAt      time.Time
	Took          time.Duration
}

type Loader struct {
	fetcher  Fetcher
	selector string
	mapCfg   record.MapperConfig
	sink     diag.Sink
	logger   *log.Logger
}

func NewLoader(cfg LoaderConfig) (*Loader, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("loader needs a fetcher")
	}
	if err := cfg.Mapper.Fields.Validate(cfg.Mapper.DateField); err != nil {
		return nil, fmt.Errorf("invalid field map: %w", err)
	}
	selector := cfg.ItemSelector
	if selector == "" {
		selector = DefaultItemSelector
	}
	return &Loader{
		fetcher:  cfg.Fetcher,
		selector: selector,
		mapCfg:   cfg.Mapper,
		sink:     diag.OrDiscard(cfg.Sink),
		logger:   log.ForService("source"),
	}, nil
}

// Location returns where the loader reads from.
func (l *Loader) Location() string {
	return l.fetcher.Location()
}

// Load fetches, decodes and maps the document. Per-field failures are
// reported and counted; only an unreachable or unparsable document fails
// the load, with a *diag.Error of kind LoadFailure that is also reported to
// the sink.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	start := time.Now()
	l.logger.Debugf("loading %s (item selector %q)", l.fetcher.Location(), l.selector)

	nodes, err := l.fetch(ctx)
	if err != nil {
		lerr := diag.Wrap(diag.LoadFailure, fmt.Sprintf("loading %s", l.fetcher.Location()), err)
		l.sink.Report(lerr)
		return nil, lerr
	}

	counter := &diag.Recorder{}
	cfg := l.mapCfg
	cfg.Sink = diag.Multi(l.sink, counter)
	mapper, err := record.NewMapper(cfg)
	if err != nil {
		return nil, err
	}

	records := make([]record.Record, len(nodes))
	for i, n := range nodes {
		records[i] = mapper.Map(n)
	}

	res := &Result{
		Records:       records,
		FieldFailures: counter.Count(diag.FieldParseFailure),
		Location:      l.fetcher.Location(),
		LoadedAt:      time.Now(),
		Took:          time.Since(start),
	}
	l.logger.Infof("loaded %d records from %s in %v (%d field failures)",
		len(records), res.Location, res.Took.Round(time.Millisecond), res.FieldFailures)
	return res, nil
}

func (l *Loader) fetch(ctx context.Context) ([]Node, error) {
	rc, err := l.fetcher.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			l.logger.Warnf("closing %s: %v", l.fetcher.Location(), err)
		}
	}()
	return Decode(rc, l.selector)
}
