package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/hoverlink/internal/cache"
	"github.com/Paintersrp/hoverlink/internal/config"
	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/match"
	"github.com/Paintersrp/hoverlink/internal/parser"
	"github.com/Paintersrp/hoverlink/internal/pathutil"
)

// ErrClosed signals that the index service has been shut down.
var ErrClosed = errors.New("index service closed")

// ErrUnavailable indicates that the entity index has not been built yet.
var ErrUnavailable = errors.New("entity index unavailable")

// DefaultSpanCacheSize bounds how many highlighted fragments are remembered
// between mutations.
const DefaultSpanCacheSize = 128

// Options configures what the service indexes and how phrases match.
type Options struct {
	Index          entity.IndexOptions
	Match          match.Config
	MaxResults     int
	IgnoredFolders []string
	IgnorePatterns []string
	SpanCacheSize  int
	Logger         *slog.Logger
}

// OptionsFromConfig derives service options from the persisted settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Index:          cfg.IndexOptions(),
		Match:          cfg.MatchConfig(),
		MaxResults:     cfg.MaxResults,
		IgnoredFolders: cfg.IgnoredFolders,
		IgnorePatterns: cfg.IgnorePatterns,
	}
}

// Stats captures lightweight instrumentation about the shared index.
type Stats struct {
	LastRebuild time.Time
	Documents   int
	Index       entity.Stats
	CachedSpans int
}

// Service owns the entity index for a vault. It is the only writer: lifecycle
// events are applied one at a time under its lock, and readers always see a
// fully applied index.
type Service struct {
	mu          sync.RWMutex
	vault       string
	opts        Options
	index       *entity.Index
	matcher     *match.Matcher
	hashes      map[string]uint64
	lastRebuild time.Time
	closed      bool

	// spans is read under mu's read lock, so it carries its own lock.
	spansMu sync.Mutex
	spans   *cache.LRUCache[string, []match.Span]

	log      *slog.Logger
	now      func() time.Time
	stat     func(string) (fs.FileInfo, error)
	readFile func(string) ([]byte, error)
}

// NewService constructs a vault-scoped index service. Nothing is indexed
// until Build is called.
func NewService(vault string, opts Options) *Service {
	opts.Match = opts.Match.Normalize()
	if opts.MaxResults < 1 {
		opts.MaxResults = config.DefaultMaxResults
	}
	if opts.SpanCacheSize < 1 {
		opts.SpanCacheSize = DefaultSpanCacheSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		vault:    pathutil.NormalizePath(vault),
		opts:     opts,
		hashes:   make(map[string]uint64),
		spans:    cache.NewLRUCache[string, []match.Span](opts.SpanCacheSize),
		log:      logger.With("component", "index"),
		now:      time.Now,
		stat:     os.Stat,
		readFile: os.ReadFile,
	}
}

func (s *Service) Vault() string {
	return s.vault
}

// MaxResults is the per-category cap applied by Popup when none is given.
func (s *Service) MaxResults() int {
	return s.opts.MaxResults
}

// Build walks the vault and replaces the index with one holding every note.
// Readers keep the previous index until the new one is complete.
func (s *Service) Build(ctx context.Context) error {
	if s == nil {
		return ErrUnavailable
	}
	if s.isClosed() {
		return ErrClosed
	}

	paths, err := s.collectNotePaths(ctx)
	if err != nil {
		return err
	}

	docs := make([]entity.Document, len(paths))
	sums := make([]uint64, len(paths))
	loaded := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, sum, err := s.load(path)
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			docs[i], sums[i], loaded[i] = doc, sum, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Documents are indexed in discovery order so record order stays stable.
	idx := entity.NewIndex(s.opts.Index)
	hashes := make(map[string]uint64, len(paths))
	for i, doc := range docs {
		if !loaded[i] {
			continue
		}
		idx.IndexDocument(doc)
		hashes[doc.ID] = sums[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.index = idx
	s.matcher = match.NewMatcher(idx, s.opts.Match)
	s.hashes = hashes
	s.lastRebuild = s.now()
	s.purgeSpans()

	s.log.Debug("index built", "documents", len(paths), "vault", s.vault)
	return nil
}

// OnDocumentCreated indexes a note that appeared in the vault.
func (s *Service) OnDocumentCreated(path string) error {
	return s.upsert(path)
}

// OnDocumentChanged reindexes a note whose content changed. A note that no
// longer exists is removed.
func (s *Service) OnDocumentChanged(path string) error {
	return s.upsert(path)
}

// OnDocumentDeleted removes every record the note contributed.
func (s *Service) OnDocumentDeleted(path string) error {
	id := s.documentID(path)
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return err
	}
	s.removeLocked(id)
	return nil
}

// OnFolderDeleted removes every indexed note under the vault folder at path
// and returns the removed ids.
func (s *Service) OnFolderDeleted(path string) ([]string, error) {
	prefix := pathutil.DocumentID(s.vault, path)
	if prefix == "" {
		return nil, nil
	}
	prefix += "/"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return nil, err
	}

	var removed []string
	for _, id := range s.index.Documents() {
		if strings.HasPrefix(id, prefix) {
			s.removeLocked(id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		s.log.Debug("folder removed", "folder", prefix, "documents", len(removed))
	}
	return removed, nil
}

// OnDocumentRenamed moves a note to its new identity. The title key follows
// the new display name.
func (s *Service) OnDocumentRenamed(oldPath, newPath string) error {
	oldID := s.documentID(oldPath)
	newID := s.documentID(newPath)

	var (
		doc entity.Document
		sum uint64
		err error
	)
	if newID != "" {
		doc, sum, err = s.load(s.absolute(newID))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", newPath, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return err
	}
	if oldID != "" {
		s.removeLocked(oldID)
	}
	if newID != "" && err == nil {
		s.indexLocked(doc, sum)
	}
	s.log.Debug("document renamed", "from", oldID, "to", newID)
	return nil
}

// Resolve finds the indexed phrase around offset in text.
func (s *Service) Resolve(text string, offset int) (match.Match, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.readableLocked(); err != nil {
		return match.Match{}, false, err
	}
	m, ok := s.matcher.Resolve(text, offset)
	return m, ok, nil
}

// SelectSpans returns the non-overlapping indexed phrases in text. Results
// are cached per text until the index next changes.
func (s *Service) SelectSpans(text string) ([]match.Span, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.readableLocked(); err != nil {
		return nil, err
	}

	s.spansMu.Lock()
	cached, ok := s.spans.Get(text)
	s.spansMu.Unlock()
	if ok {
		return append([]match.Span(nil), cached...), nil
	}

	spans := s.matcher.SelectSpans(text)

	s.spansMu.Lock()
	s.spans.Put(text, spans)
	s.spansMu.Unlock()

	return append([]match.Span(nil), spans...), nil
}

// Lookup returns the records stored under key for one category.
func (s *Service) Lookup(c entity.Category, key string) ([]entity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.readableLocked(); err != nil {
		return nil, err
	}
	return s.index.Lookup(c, key), nil
}

// PopupSection lists the records of one category for a phrase. Total counts
// every record before the cap was applied.
type PopupSection struct {
	Category entity.Category
	Records  []entity.Record
	Total    int
}

// Popup describes everything a hovered phrase links to.
type Popup struct {
	Phrase   string
	Sections []PopupSection
}

func (p Popup) Empty() bool {
	return len(p.Sections) == 0
}

// First returns the first record shown, in category priority order.
func (p Popup) First() (entity.Record, bool) {
	for _, section := range p.Sections {
		if len(section.Records) > 0 {
			return section.Records[0], true
		}
	}
	return nil, false
}

// Popup gathers the records of every enabled category holding phrase, at most
// maxResults per category. A maxResults below one uses the configured cap.
func (s *Service) Popup(phrase string, maxResults int) (Popup, error) {
	if maxResults < 1 {
		maxResults = s.opts.MaxResults
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.readableLocked(); err != nil {
		return Popup{}, err
	}

	popup := Popup{Phrase: phrase}
	for _, c := range entity.Priority {
		if !s.opts.Match.Detect.Enabled(c) {
			continue
		}
		records := s.index.Lookup(c, phrase)
		if len(records) == 0 {
			continue
		}
		popup.Sections = append(popup.Sections, PopupSection{
			Category: c,
			Records:  records[:min(len(records), maxResults)],
			Total:    len(records),
		})
	}
	return popup, nil
}

// Documents lists the ids of every indexed note.
func (s *Service) Documents() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.readableLocked(); err != nil {
		return nil, err
	}
	return s.index.Documents(), nil
}

// Path returns the absolute path of the note with the given id.
func (s *Service) Path(id string) string {
	return s.absolute(id)
}

// Snapshot returns an independent copy of the index.
func (s *Service) Snapshot() (*entity.Index, error) {
	if s == nil {
		return nil, ErrUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.readableLocked(); err != nil {
		return nil, err
	}
	return s.index.Clone(), nil
}

// Stats returns instrumentation about the index lifecycle.
func (s *Service) Stats() Stats {
	if s == nil {
		return Stats{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{LastRebuild: s.lastRebuild}
	if s.index != nil {
		stats.Index = s.index.Stats()
		stats.Documents = stats.Index.Documents
	}

	s.spansMu.Lock()
	stats.CachedSpans = s.spans.Len()
	s.spansMu.Unlock()
	return stats
}

// Close releases the service. Every later call returns ErrClosed.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.index = nil
	s.matcher = nil
	s.hashes = nil
	s.purgeSpans()
	return nil
}

func (s *Service) upsert(path string) error {
	id := s.documentID(path)
	if id == "" {
		return nil
	}

	doc, sum, err := s.load(s.absolute(id))
	if errors.Is(err, fs.ErrNotExist) {
		return s.OnDocumentDeleted(path)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return err
	}
	if prev, ok := s.hashes[id]; ok && prev == sum && s.index.Contains(id) {
		return nil
	}
	s.indexLocked(doc, sum)
	return nil
}

// load reads and parses the note at path. Front matter that fails to parse
// leaves the document with no metadata so its title stays linkable.
func (s *Service) load(path string) (entity.Document, uint64, error) {
	info, err := s.stat(path)
	if err != nil {
		return entity.Document{}, 0, err
	}
	if info.IsDir() {
		return entity.Document{}, 0, fs.ErrNotExist
	}

	data, err := s.readFile(path)
	if err != nil {
		return entity.Document{}, 0, err
	}

	id := s.documentID(path)
	doc, err := parser.Document(id, pathutil.DisplayName(id), path, data)
	if err != nil {
		s.log.Warn("indexing title only", "document", id, "error", err)
	}
	return doc, xxhash.Sum64(data), nil
}

func (s *Service) indexLocked(doc entity.Document, sum uint64) {
	s.index.RemoveDocument(doc.ID)
	s.index.IndexDocument(doc)
	s.hashes[doc.ID] = sum
	s.purgeSpans()
	s.log.Debug("document indexed", "document", doc.ID)
}

func (s *Service) removeLocked(id string) {
	if n := s.index.RemoveDocument(id); n > 0 {
		s.log.Debug("document removed", "document", id, "records", n)
	}
	delete(s.hashes, id)
	s.purgeSpans()
}

func (s *Service) purgeSpans() {
	s.spansMu.Lock()
	s.spans.Purge()
	s.spansMu.Unlock()
}

func (s *Service) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Service) readableLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.index == nil {
		return ErrUnavailable
	}
	return nil
}

func (s *Service) writableLocked() error {
	return s.readableLocked()
}

// documentID maps path to a document identity, or "" when the path is not an
// indexable note of this vault.
func (s *Service) documentID(path string) string {
	if !pathutil.IsNote(path) {
		return ""
	}
	id := pathutil.DocumentID(s.vault, path)
	if id == "" || pathutil.Ignored(id, s.opts.IgnoredFolders, s.opts.IgnorePatterns) {
		return ""
	}
	return id
}

func (s *Service) absolute(id string) string {
	return filepath.Join(s.vault, filepath.FromSlash(id))
}

func (s *Service) collectNotePaths(ctx context.Context) ([]string, error) {
	if s.vault == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	paths := make([]string, 0)
	err := filepath.WalkDir(s.vault, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := pathutil.VaultRelative(s.vault, path)
		if relErr != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			// Ignored only inspects parent segments, so test a child path.
			if pathutil.Ignored(rel+"/"+pathutil.NoteExt, s.opts.IgnoredFolders, nil) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.documentID(path) != "" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
