package analytics

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
)

const schemaFetchLimit = 4

// Session is one chart-building session. It caches table schemas for its
// lifetime and makes sure only the newest request's result is committed.
type Session struct {
	id       string
	source   SchemaSource
	pipeline *Pipeline

	mu      sync.Mutex
	tables  map[string]bool
	catalog Catalog

	ticket    atomic.Uint64
	lastUsed  atomic.Int64
	viewMu    sync.RWMutex
	committed uint64
	view      *Result
}

func NewSession(id string, source SchemaSource, pipeline *Pipeline) *Session {
	s := &Session{
		id:       id,
		source:   source,
		pipeline: pipeline,
		catalog:  Catalog{},
	}
	s.touch()
	return s
}

func (s *Session) ID() string { return s.id }

// LastUsed is when the session last served a request.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

// Catalog returns a snapshot containing the cached schemas, fetching the named
// tables that are not cached yet. Names the store does not know are skipped so
// the builder can report them. A schema is fetched at most once per session.
func (s *Session) Catalog(ctx context.Context, tables ...string) (Catalog, error) {
	s.touch()

	known, err := s.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	var missing []string
	for _, name := range tables {
		if _, cached := s.catalog[name]; !cached && known[name] && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	s.mu.Unlock()

	if len(missing) > 0 {
		fetched := make([]TableSchema, len(missing))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(schemaFetchLimit)
		for i, name := range missing {
			g.Go(func() error {
				cols, err := s.source.GetTableColumns(gctx, name)
				if err != nil {
					return fmt.Errorf("load schema for %q: %w", name, err)
				}
				fetched[i] = FromSchemaTable(types.SchemaTable{Name: name, Columns: cols})
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		s.mu.Lock()
		for _, schema := range fetched {
			if _, cached := s.catalog[schema.TableName]; !cached {
				s.catalog[schema.TableName] = schema
			}
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(Catalog, len(s.catalog))
	for name, schema := range s.catalog {
		snapshot[name] = schema
	}
	return snapshot, nil
}

func (s *Session) tableNames(ctx context.Context) (map[string]bool, error) {
	s.mu.Lock()
	known := s.tables
	s.mu.Unlock()
	if known != nil {
		return known, nil
	}

	names, err := s.source.GetAllTableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	known = make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables == nil {
		s.tables = known
	}
	return s.tables, nil
}

// Submit runs the selection and commits its result as the session's view. If
// another Submit started after this one, the result is dropped and
// ErrStaleResult is returned instead. In-flight queries are never cancelled.
func (s *Session) Submit(ctx context.Context, sel Selection) (*Result, error) {
	ticket := s.ticket.Add(1)

	result, err := s.run(ctx, sel)

	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	if ticket != s.ticket.Load() || ticket <= s.committed {
		return nil, ErrStaleResult
	}
	if err != nil {
		return nil, err
	}
	s.committed = ticket
	s.view = result
	return result, nil
}

func (s *Session) run(ctx context.Context, sel Selection) (*Result, error) {
	catalog, err := s.Catalog(ctx, sel.Tables()...)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, sel, catalog)
}

// View returns the last committed result, or nil before the first one.
func (s *Session) View() *Result {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.view
}

