// internal/scraper/engine.go
package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/ScrapeCache/internal/cache"
	"github.com/valpere/ScrapeCache/internal/monitoring"
	"github.com/valpere/ScrapeCache/internal/utils"
)

// DefaultBaseURL is the catalogue site pages are fetched from.
const DefaultBaseURL = "https://www.adultempire.com"

// Engine resolves resource keys to typed records through the cache,
// fetching and extracting on a miss.
type Engine struct {
	fetcher Fetcher
	store   *cache.Store
	parser  Parser
	baseURL string
	logger  utils.Logger
	metrics *monitoring.MetricsManager
}

// Option configures an Engine.
type Option func(*Engine)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(e *Engine) { e.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the engine logger.
func WithLogger(l utils.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records cache and pipeline metrics on m.
func WithMetrics(m *monitoring.MetricsManager) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithParser replaces the goquery HTML parser.
func WithParser(p Parser) Option {
	return func(e *Engine) { e.parser = p }
}

// NewEngine creates an engine reading through store. A nil store gets a
// default-sized cache.
func NewEngine(fetcher Fetcher, store *cache.Store, opts ...Option) (*Engine, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if err := validateRuleTables(); err != nil {
		return nil, err
	}
	if store == nil {
		store = cache.New(cache.Options{})
	}

	e := &Engine{
		fetcher: fetcher,
		store:   store,
		parser:  NewHTMLParser(),
		baseURL: DefaultBaseURL,
		logger:  utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Cache returns the store backing the engine.
func (e *Engine) Cache() *cache.Store {
	return e.store
}

// Movie returns the detail record of a title.
func (e *Engine) Movie(ctx context.Context, id string) (MovieRecord, cache.Provenance, error) {
	return get(ctx, e, ResourceKey{Type: ResourceMovie, ID: id}, ExtractMovie)
}

// Credits returns the cast and crew of a title.
func (e *Engine) Credits(ctx context.Context, id string) (CreditsRecord, cache.Provenance, error) {
	return get(ctx, e, ResourceKey{Type: ResourceCredits, ID: id}, ExtractCredits)
}

// Person returns a performer profile.
func (e *Engine) Person(ctx context.Context, id string) (PersonRecord, cache.Provenance, error) {
	return get(ctx, e, ResourceKey{Type: ResourcePerson, ID: id}, ExtractPerson)
}

// Listing returns one page of a listing kind. Pages below 1 are read as 1.
func (e *Engine) Listing(ctx context.Context, kind ResourceType, page int) (ListingRecord, cache.Provenance, error) {
	if page < 1 {
		page = 1
	}
	return get(ctx, e, ResourceKey{Type: kind, Page: page}, ExtractListing)
}

// GenreList returns every genre of the catalogue.
func (e *Engine) GenreList(ctx context.Context) (GenreListRecord, cache.Provenance, error) {
	return get(ctx, e, ResourceKey{Type: ResourceGenres}, ExtractGenreList)
}

// Reviews returns the user reviews of a title.
func (e *Engine) Reviews(ctx context.Context, id string) (ReviewsRecord, cache.Provenance, error) {
	return get(ctx, e, ResourceKey{Type: ResourceReviews, ID: id}, ExtractReviews)
}

// Keywords returns the keyword tags of a title.
func (e *Engine) Keywords(ctx context.Context, id string) (KeywordsRecord, cache.Provenance, error) {
	return get(ctx, e, ResourceKey{Type: ResourceKeywords, ID: id}, ExtractKeywords)
}

// Configuration returns the static image configuration.
func (e *Engine) Configuration() ConfigurationRecord {
	return ConfigurationRecord{
		Images: ImagesConfiguration{
			BackdropBaseURL: BackdropImage.BaseURL,
			PosterBaseURL:   PosterImage.BaseURL,
			ProfileBaseURL:  ProfileImage.BaseURL,
			StudioBaseURL:   StudioImage.BaseURL,
			BackdropSizes:   []string{"original"},
			PosterSizes:     []string{"original"},
			ProfileSizes:    []string{"original"},
		},
	}
}

// SourceURL returns the page a key is extracted from.
func (e *Engine) SourceURL(key ResourceKey) (string, error) {
	switch key.Type {
	case ResourceMovie, ResourceCredits, ResourceKeywords, ResourcePerson:
		if key.ID == "" {
			return "", fmt.Errorf("%w: empty %s id", ErrInvalidRequest, key.Type)
		}
		return e.baseURL + "/" + key.ID, nil
	case ResourceReviews:
		if key.ID == "" {
			return "", fmt.Errorf("%w: empty %s id", ErrInvalidRequest, key.Type)
		}
		return e.baseURL + "/" + key.ID + "/reviews.html", nil
	case ResourceGenres:
		return e.baseURL + genreListPath, nil
	}
	if rule, ok := listingRules[key.Type]; ok {
		return e.baseURL + rule.Path + "?page=" + strconv.Itoa(key.Page), nil
	}
	return "", fmt.Errorf("%w: unknown resource type %q", ErrInvalidRequest, key.Type)
}

type extractFunc[T any] func(*goquery.Document, ResourceKey) (T, error)

// get runs the read-through pipeline for key. Failures are never cached.
func get[T any](ctx context.Context, e *Engine, key ResourceKey, extract extractFunc[T]) (T, cache.Provenance, error) {
	var zero T
	resource := string(key.Type)
	log := e.logger.WithFields(map[string]interface{}{
		"resource": resource,
		"key":      key.String(),
	})

	target, err := e.SourceURL(key)
	if err != nil {
		ee := wrap(key, err)
		e.metrics.RecordFailure(resource, string(ee.Kind))
		log.Warnf("rejected: %v", err)
		return zero, "", ee
	}

	value, prov, err := e.store.GetOrCompute(ctx, key.String(), 0, func(ctx context.Context) (any, error) {
		return fetchAndExtract(ctx, e, key, target, extract)
	})
	// A failed compute was still a miss.
	e.metrics.RecordCacheLookup(resource, string(prov))
	if err != nil {
		ee := wrap(key, err)
		e.metrics.RecordFailure(resource, string(ee.Kind))
		log.WithField("kind", ee.Kind).Warnf("extraction failed: %v", err)
		return zero, "", ee
	}
	log.WithField("provenance", prov).Debug("resolved")

	record, ok := value.(T)
	if !ok {
		ee := &EngineError{Kind: KindInternal, Key: key, Err: fmt.Errorf("cached value has type %T", value)}
		e.metrics.RecordFailure(resource, string(ee.Kind))
		return zero, "", ee
	}
	return record, prov, nil
}

// fetchAndExtract is the miss path: fetch, parse, extract.
func fetchAndExtract[T any](ctx context.Context, e *Engine, key ResourceKey, target string, extract extractFunc[T]) (T, error) {
	var zero T
	resource := string(key.Type)

	start := time.Now()
	raw, err := e.fetcher.Fetch(ctx, target)
	e.metrics.RecordFetch(resource, time.Since(start), err)
	if err != nil {
		return zero, err
	}

	doc, err := e.parser.Parse(raw)
	if err != nil {
		return zero, err
	}

	start = time.Now()
	record, err := extract(doc, key)
	e.metrics.RecordExtractionTime(resource, time.Since(start))
	if err != nil {
		return zero, err
	}
	return record, nil
}
