package service

import (
	"alcyxob/liftlog/internal/catalog"
	"alcyxob/liftlog/internal/metrics"
	"alcyxob/liftlog/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownSource = errors.New("source must be api or local")

// Searcher is the remote catalog. *catalog.Client implements it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]catalog.Item, error)
}

// SearchQuery selects the catalog and narrows the result. Muscle and Day
// filter on the item tags after the text search.
type SearchQuery struct {
	Source string
	Text   string
	Muscle string
	Day    string
}

// SearchResult carries the items to show. On failure Items holds the user's
// previous result list and Error the message to display.
type SearchResult struct {
	Source string         `json:"source"`
	Query  string         `json:"query"`
	Muscle string         `json:"muscle,omitempty"`
	Day    string         `json:"day,omitempty"`
	Items  []catalog.Item `json:"items"`
	Error  string         `json:"error,omitempty"`
}

// CatalogService searches the remote or local exercise catalog.
type CatalogService interface {
	Search(ctx context.Context, userID string, q SearchQuery) (*SearchResult, error)
}

// cacheEntryOverhead leaves room for the freecache entry header and the key
// when sizing chunks.
const cacheEntryOverhead = 256

type catalogService struct {
	remote       Searcher
	exerciseRepo repository.ExerciseRepository
	lastResults  *freecache.Cache
	chunkSize    int
	generation   atomic.Uint64
	resultTTL    time.Duration
	metrics      *metrics.Manager
}

// NewCatalogService keeps each user's last successful result list in a
// freecache of cacheSizeMB megabytes.
func NewCatalogService(remote Searcher, exerciseRepo repository.ExerciseRepository, cacheSizeMB int, resultTTL time.Duration, m *metrics.Manager) CatalogService {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}
	size := cacheSizeMB * 1024 * 1024
	// freecache refuses entries larger than 1/1024 of its size
	chunkSize := size/1024 - cacheEntryOverhead
	return &catalogService{
		remote:       remote,
		exerciseRepo: exerciseRepo,
		lastResults:  freecache.NewCache(size),
		chunkSize:    chunkSize,
		resultTTL:    resultTTL,
		metrics:      m,
	}
}

// Search runs q against its source. A blank text yields an empty list and
// no call. Failures return the previous list together with the error.
func (s *catalogService) Search(ctx context.Context, userID string, q SearchQuery) (*SearchResult, error) {
	source := strings.ToLower(strings.TrimSpace(q.Source))
	if source == "" {
		source = catalog.SourceAPI
	}
	if source != catalog.SourceAPI && source != catalog.SourceLocal {
		return nil, ErrUnknownSource
	}

	text := strings.TrimSpace(q.Text)
	result := &SearchResult{
		Source: source,
		Query:  text,
		Muscle: strings.TrimSpace(q.Muscle),
		Day:    strings.TrimSpace(q.Day),
		Items:  []catalog.Item{},
	}
	if text == "" {
		s.remember(userID, result.Items)
		return result, nil
	}

	items, err := s.search(ctx, source, text)
	s.metrics.CatalogSearch(source, err)
	if err != nil {
		log.Warnf("catalog search [%s] %q for user %s: %v", source, text, userID, err)
		result.Items = s.previous(userID)
		result.Error = searchErrorMessage(err)
		return result, err
	}

	items = catalog.FilterByMuscleGroup(items, result.Muscle)
	items = catalog.FilterByTrainingDay(items, result.Day)
	result.Items = items
	s.remember(userID, items)
	return result, nil
}

func (s *catalogService) search(ctx context.Context, source, q string) ([]catalog.Item, error) {
	if source == catalog.SourceAPI {
		if s.remote == nil {
			return nil, catalog.ErrMissingAPIKey
		}
		return s.remote.Search(ctx, q)
	}

	if s.exerciseRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	exercises, err := s.exerciseRepo.Search(ctx, q, repository.DefaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("local search: %w", err)
	}
	return catalog.FromExercises(exercises), nil
}

func searchErrorMessage(err error) string {
	var statusErr *catalog.StatusError
	switch {
	case errors.Is(err, catalog.ErrMissingAPIKey), errors.Is(err, ErrBackendNotConfigured):
		return err.Error()
	case errors.As(err, &statusErr):
		return statusErr.Error()
	}
	return "Failed to load exercises"
}

func cacheKey(userID string) []byte {
	return []byte("catalog:last:" + userID)
}

func chunkKey(userID string, gen uint64, i int) []byte {
	return []byte(fmt.Sprintf("catalog:last:%s:%d:%d", userID, gen, i))
}

// remember stores items as a header naming the generation and chunk count,
// followed by the encoded list split into chunks freecache accepts.
func (s *catalogService) remember(userID string, items []catalog.Item) {
	raw, err := json.Marshal(items)
	if err != nil {
		log.Warnf("encode catalog results: %v", err)
		return
	}
	ttl := int(s.resultTTL.Seconds())
	gen := s.generation.Add(1)

	n := 0
	for off := 0; off < len(raw); off += s.chunkSize {
		end := min(off+s.chunkSize, len(raw))
		if err := s.lastResults.Set(chunkKey(userID, gen, n), raw[off:end], ttl); err != nil {
			log.Warnf("cache catalog results for user %s: %v", userID, err)
			return
		}
		n++
	}

	old, _ := s.lastResults.Get(cacheKey(userID))
	header := fmt.Sprintf("%d:%d", gen, n)
	if err := s.lastResults.Set(cacheKey(userID), []byte(header), ttl); err != nil {
		log.Warnf("cache catalog results for user %s: %v", userID, err)
		return
	}
	if oldGen, oldN, ok := parseHeader(old); ok && oldGen != gen {
		for i := 0; i < oldN; i++ {
			s.lastResults.Del(chunkKey(userID, oldGen, i))
		}
	}
}

// previous reassembles the last stored list. A missing or evicted chunk
// yields an empty list.
func (s *catalogService) previous(userID string) []catalog.Item {
	items := []catalog.Item{}
	header, err := s.lastResults.Get(cacheKey(userID))
	if err != nil {
		return items
	}
	gen, n, ok := parseHeader(header)
	if !ok {
		return items
	}

	var raw []byte
	for i := 0; i < n; i++ {
		chunk, err := s.lastResults.Get(chunkKey(userID, gen, i))
		if err != nil {
			return items
		}
		raw = append(raw, chunk...)
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []catalog.Item{}
	}
	return items
}

func parseHeader(header []byte) (gen uint64, n int, ok bool) {
	genPart, nPart, found := strings.Cut(string(header), ":")
	if !found {
		return 0, 0, false
	}
	gen, err := strconv.ParseUint(genPart, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	n, err = strconv.Atoi(nPart)
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return gen, n, true
}
