package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/engine"
	"github.com/rubiojr/xmlsearch/pkg/highlight"
	"github.com/rubiojr/xmlsearch/pkg/log"
	"github.com/rubiojr/xmlsearch/pkg/realtime"
	"github.com/rubiojr/xmlsearch/pkg/record"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/source"
	"github.com/rubiojr/xmlsearch/pkg/view"
)

// State is the load state of a service.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Loader produces a record set. *source.Loader implements it.
type Loader interface {
	Load(ctx context.Context) (*source.Result, error)
	Location() string
}

// Options configure how searches are evaluated and rendered.
type Options struct {
	// Fields are the valid logical field names.
	Fields       []string
	SearchFields []string
	// DisplayFields are the fields shown per item.
	DisplayFields []string
	Paginate      bool
	PageSize      int
	Highlight     bool
	// Session holds the query parameter name and default sort used to
	// decode session state from URLs.
	Session session.Options
	// Sink receives engine reports such as invalid sort fields.
	Sink diag.Sink
	// Hub, when set, receives an event after every load.
	Hub *realtime.Hub
}

// Results is the outcome of one search.
type Results struct {
	View  engine.View
	Page  view.Page
	State State
}

// Status describes the loaded record set.
type Status struct {
	State         State         `json:"state"`
	Source        string        `json:"source"`
	Records       int           `json:"records"`
	FieldFailures int           `json:"field_failures"`
	LoadedAt      time.Time     `json:"loaded_at,omitzero"`
	Took          time.Duration `json:"took"`
	Error         string        `json:"error,omitempty"`
}

// Service is safe for concurrent use.
type Service struct {
	loader      Loader
	opts        Options
	highlighter *highlight.Highlighter
	logger      *log.Logger

	engine atomic.Pointer[engine.Engine]

	loadMu sync.Mutex // serializes loads

	mu     sync.RWMutex
	status Status
	err    error
}

// NewService returns a service with an empty record set in the loading
// state.
func NewService(loader Loader, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = engine.DefaultPageSize
	}
	s := &Service{
		loader:      loader,
		opts:        opts,
		highlighter: highlight.New(opts.Highlight),
		logger:      log.ForService("search"),
		status:      Status{State: StateLoading, Source: loader.Location()},
	}
	s.engine.Store(s.newEngine(nil))
	return s
}

func (s *Service) newEngine(recs []record.Record) *engine.Engine {
	e := engine.New(engine.Options{
		Fields:       s.opts.Fields,
		SearchFields: s.opts.SearchFields,
		Paginate:     s.opts.Paginate,
		Sink:         s.opts.Sink,
	})
	e.SetRecords(recs)
	return e
}

// Load runs the loader and swaps in the result. On failure the record set
// is emptied and the load failure is returned and kept for Search. The
// loader is responsible for reporting the failure to its sink.
func (s *Service) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	res, err := s.loader.Load(ctx)
	if err != nil {
		if !diag.IsKind(err, diag.LoadFailure) {
			err = diag.Wrap(diag.LoadFailure, "loading "+s.loader.Location(), err)
		}
		s.engine.Store(s.newEngine(nil))
		now := time.Now()
		s.mu.Lock()
		s.status = Status{State: StateFailed, Source: s.loader.Location(), LoadedAt: now, Error: err.Error()}
		s.err = err
		s.mu.Unlock()
		s.publish(realtime.LoadFailed(s.loader.Location(), err, now))
		return err
	}

	s.engine.Store(s.newEngine(res.Records))
	s.mu.Lock()
	s.status = Status{
		State:         StateReady,
		Source:        res.Location,
		Records:       len(res.Records),
		FieldFailures: res.FieldFailures,
		LoadedAt:      res.LoadedAt,
		Took:          res.Took,
	}
	s.err = nil
	s.mu.Unlock()
	s.publish(realtime.Reloaded(res.Location, len(res.Records), res.LoadedAt))
	return nil
}

// LoadAsync runs Load in a goroutine. The returned channel receives the
// load error (nil on success) and is then closed.
func (s *Service) LoadAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := s.Load(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Debugf("async load finished with error: %v", err)
		}
		done <- err
	}()
	return done
}

func (s *Service) publish(ev realtime.Event) {
	if s.opts.Hub != nil {
		s.opts.Hub.Broadcast(ev)
	}
}

// Search evaluates the state against the current record set. The returned
// error is the last load failure, if any; Results is never nil.
func (s *Service) Search(state *session.State) (*Results, error) {
	if state == nil {
		state = session.New()
	}
	v := s.engine.Load().Evaluate(state.Query(s.opts.PageSize))
	page := view.Build(v, view.Options{
		DisplayFields: s.opts.DisplayFields,
		Highlighter:   s.highlighter,
		Paginated:     s.opts.Paginate,
	})

	s.mu.RLock()
	st, err := s.status.State, s.err
	s.mu.RUnlock()
	return &Results{View: v, Page: page, State: st}, err
}

// Status returns a snapshot of the load state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the last load failure, or nil.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// SessionOptions returns the options for decoding session state.
func (s *Service) SessionOptions() session.Options {
	return s.opts.Session
}

// Hub returns the realtime hub, or nil.
func (s *Service) Hub() *realtime.Hub {
	return s.opts.Hub
}
