// internal/scraper/rules.go
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/ScrapeCache/internal/normalize"
)

const runtimeLabel = "Length:"

// linkFields reads (id, name) from an anchor: the id is the first path
// segment of its href.
var linkFields = []FieldConfig{
	{Name: "id", Type: TypeAttr, Attribute: "href", Transform: []Transform{normalize.IDFromHref}},
	{Name: "name", Type: TypeText, Transform: []Transform{normalize.Space}},
}

// titleAnchor guards pages that must be a title detail page.
var titleAnchor = []FieldConfig{
	{Name: "title", Selector: "h1", Type: TypeText, Required: true, Transform: []Transform{normalize.CleanTitle}},
}

var movieFields = []FieldConfig{
	titleAnchor[0],
	{Name: "backdrop", Selector: "#previewContainer", Type: TypeAttr, Attribute: "style", Transform: []Transform{normalize.BackgroundURL}},
	{Name: "overview", Selector: ".synopsis-content", Type: TypeText},
	{Name: "poster", Selector: ".boxcover-container a", Type: TypeAttr, Attribute: "data-href"},
	{
		Name:      "runtime",
		Selector:  "div.col-sm-4 ul.list-unstyled li",
		Type:      TypeOwnText,
		Filter:    textHasPrefix(runtimeLabel),
		Transform: []Transform{stripLabel(runtimeLabel), normalize.Space},
	},
	{Name: "vote_average", Selector: ".rating-stars-avg", Type: TypeText},
	{Name: "vote_count", Selector: "e-user-actions", Type: TypeAttr, Attribute: ":count", Filter: attrEquals(":variant", "'like'")},
}

const (
	genreTagSelector   = ".movie-page__content-tags__categories a"
	keywordTagSelector = ".movie-page__content-tags__keywords a"
	castSelector       = ".movie-page__content-tags__performers a"
	crewSelector       = ".movie-page__heading__movie-info a"
	backdropSelector   = "div.col-xs-6 img.img-full-responsive"
	similarSelector    = ".similar-titles .grid-item"
	genreListSelector  = ".category-list a"
	reviewSelector     = ".review"
)

var backdropFields = []FieldConfig{
	{Name: "file", Type: TypeAttr, Attribute: "data-bgsrc"},
}

var personFields = []FieldConfig{
	{Name: "name", Selector: "h1", Type: TypeText, Required: true, Transform: []Transform{normalize.Space}},
	{Name: "biography", Selector: ".modal-body.text-md", Type: TypeHTML},
}

var reviewFields = []FieldConfig{
	{Name: "author", Selector: ".review__author", Type: TypeText, Transform: []Transform{normalize.Space}},
	{Name: "content", Selector: ".review__content", Type: TypeText},
}

// summaryFields reads one title card of a listing grid.
var summaryFields = []FieldConfig{
	{Name: "id", Selector: ".product-details__item-title a", Type: TypeAttr, Attribute: "href", Transform: []Transform{normalize.IDFromHref}},
	{Name: "title", Selector: ".product-details__item-title a", Type: TypeText, Transform: []Transform{normalize.Space}},
	{Name: "poster", Selector: ".boxcover-container img", Type: TypeAttr, Attribute: "src"},
	{Name: "backdrop", Selector: ".boxcover-container img", Type: TypeAttr, Attribute: "data-bgsrc"},
}

// performerFields reads one performer card of the popular persons grid.
var performerFields = []FieldConfig{
	{Name: "id", Selector: "a", Type: TypeAttr, Attribute: "href", Transform: []Transform{normalize.IDFromHref}},
	{Name: "title", Selector: "a", Type: TypeText, Transform: []Transform{normalize.Space}},
	{Name: "poster", Selector: "img", Type: TypeAttr, Attribute: "src"},
}

var paginationFields = []FieldConfig{
	{Name: "total_results", Selector: ".list-page__results strong", Type: TypeText},
	{Name: "total_pages", Selector: `.pagination li a[aria-label="Go to Last Page"]`, Type: TypeText},
}

// listingRule describes one paginated listing kind.
type listingRule struct {
	Path         string
	ItemSelector string
	Fields       []FieldConfig
	Image        ImageKind
}

var listingRules = map[ResourceType]listingRule{
	ResourceDiscover:       {Path: "/all-dvds.html", ItemSelector: ".grid-item", Fields: summaryFields, Image: PosterImage},
	ResourcePopular:        {Path: "/dvd/bestsellers.html", ItemSelector: ".grid-item", Fields: summaryFields, Image: PosterImage},
	ResourceTopRated:       {Path: "/dvd/top-rated.html", ItemSelector: ".grid-item", Fields: summaryFields, Image: PosterImage},
	ResourceUpcoming:       {Path: "/dvd/coming-soon.html", ItemSelector: ".grid-item", Fields: summaryFields, Image: PosterImage},
	ResourcePopularPersons: {Path: "/performers.html", ItemSelector: ".performer-grid .grid-item", Fields: performerFields, Image: ProfileImage},
}

const genreListPath = "/dvd/categories.html"

// allFieldTables is every declarative table, for validation.
func allFieldTables() map[string][]FieldConfig {
	tables := map[string][]FieldConfig{
		"link":       linkFields,
		"movie":      movieFields,
		"backdrops":  backdropFields,
		"person":     personFields,
		"reviews":    reviewFields,
		"summary":    summaryFields,
		"performer":  performerFields,
		"pagination": paginationFields,
	}
	return tables
}

// validateRuleTables checks every field table once at engine construction.
func validateRuleTables() error {
	for name, fields := range allFieldTables() {
		for _, f := range fields {
			if err := validateFieldConfig(f); err != nil {
				return fmt.Errorf("rule table %s: %w", name, err)
			}
		}
	}
	return nil
}

func textHasPrefix(prefix string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		return strings.HasPrefix(strings.TrimSpace(s.Text()), prefix)
	}
}

func attrEquals(name, value string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && v == value
	}
}

func stripLabel(label string) Transform {
	return func(s string) string { return normalize.StripLabel(s, label) }
}

// extractTags reads (id, name) pairs in document order.
func extractTags(doc *goquery.Document, key ResourceKey, selector string) ([]Tag, error) {
	items, err := NewExtractionEngine(key, linkFields).ExtractEach(doc.Selection, selector)
	if err != nil {
		return nil, err
	}
	tags := make([]Tag, 0, len(items))
	for _, it := range items {
		tags = append(tags, Tag{ID: it["id"], Name: it["name"]})
	}
	return tags, nil
}

// extractCredits is shared by the movie and credits rules. Cast entries are
// kept even without an id; crew entries without an id are dropped.
func extractCredits(doc *goquery.Document, key ResourceKey) ([]CastMember, []CrewMember, error) {
	castLinks, err := NewExtractionEngine(key, linkFields).ExtractEach(doc.Selection, castSelector)
	if err != nil {
		return nil, nil, err
	}
	crewLinks, err := NewExtractionEngine(key, linkFields).ExtractEach(doc.Selection, crewSelector)
	if err != nil {
		return nil, nil, err
	}

	cast := make([]CastMember, 0, len(castLinks))
	for _, l := range castLinks {
		cast = append(cast, CastMember{
			ID:         l["id"],
			Name:       l["name"],
			Profile:    ProfileImage.RefForID(l["id"]),
			Department: DepartmentActing,
		})
	}

	crew := make([]CrewMember, 0, len(crewLinks))
	for _, l := range crewLinks {
		if l["id"] == "" {
			continue
		}
		crew = append(crew, CrewMember{
			ID:         l["id"],
			Name:       l["name"],
			Profile:    StudioImage.RefForID(l["id"]),
			Department: DepartmentDirecting,
		})
	}
	return cast, crew, nil
}

func extractSummaries(doc *goquery.Document, key ResourceKey, itemSelector string, fields []FieldConfig, image ImageKind) ([]Summary, error) {
	items, err := NewExtractionEngine(key, fields).ExtractEach(doc.Selection, itemSelector)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(items))
	for _, it := range items {
		out = append(out, Summary{
			ID:       it["id"],
			Title:    it["title"],
			Poster:   image.Ref(it["poster"]),
			Backdrop: BackdropImage.Ref(it["backdrop"]),
		})
	}
	return out, nil
}

// ExtractMovie applies the movie detail rule.
func ExtractMovie(doc *goquery.Document, key ResourceKey) (MovieRecord, error) {
	data, err := NewExtractionEngine(key, movieFields).ExtractAll(doc.Selection)
	if err != nil {
		return MovieRecord{}, err
	}

	genres, err := extractTags(doc, key, genreTagSelector)
	if err != nil {
		return MovieRecord{}, err
	}

	files, err := NewExtractionEngine(key, backdropFields).ExtractEach(doc.Selection, backdropSelector)
	if err != nil {
		return MovieRecord{}, err
	}
	backdrops := make([]ImageRef, 0, len(files))
	for _, f := range files {
		if ref := BackdropImage.Ref(f["file"]); !ref.IsZero() {
			backdrops = append(backdrops, ref)
		}
	}

	similar, err := extractSummaries(doc, key, similarSelector, summaryFields, PosterImage)
	if err != nil {
		return MovieRecord{}, err
	}

	cast, crew, err := extractCredits(doc, key)
	if err != nil {
		return MovieRecord{}, err
	}

	return MovieRecord{
		ID:          key.ID,
		Title:       data["title"],
		Backdrop:    BackdropImage.Ref(data["backdrop"]),
		Genres:      genres,
		Overview:    data["overview"],
		Poster:      PosterImage.Ref(data["poster"]),
		Runtime:     normalize.Minutes(data["runtime"]),
		VoteAverage: data["vote_average"],
		VoteCount:   normalize.Count(data["vote_count"]),
		Backdrops:   backdrops,
		Similar:     similar,
		Cast:        cast,
		Crew:        crew,
	}, nil
}

// ExtractCredits applies the credits rule.
func ExtractCredits(doc *goquery.Document, key ResourceKey) (CreditsRecord, error) {
	if _, err := NewExtractionEngine(key, titleAnchor).ExtractAll(doc.Selection); err != nil {
		return CreditsRecord{}, err
	}
	cast, crew, err := extractCredits(doc, key)
	if err != nil {
		return CreditsRecord{}, err
	}
	return CreditsRecord{ID: key.ID, Cast: cast, Crew: crew}, nil
}

// ExtractPerson applies the performer profile rule.
func ExtractPerson(doc *goquery.Document, key ResourceKey) (PersonRecord, error) {
	data, err := NewExtractionEngine(key, personFields).ExtractAll(doc.Selection)
	if err != nil {
		return PersonRecord{}, err
	}
	return PersonRecord{
		ID:        key.ID,
		Name:      data["name"],
		Biography: data["biography"],
		Profile:   ProfileImage.RefForID(key.ID),
	}, nil
}

// ExtractListing applies the listing rule for key.Type.
func ExtractListing(doc *goquery.Document, key ResourceKey) (ListingRecord, error) {
	rule, ok := listingRules[key.Type]
	if !ok {
		return ListingRecord{}, fmt.Errorf("%w: %s is not a listing", ErrInvalidRequest, key.Type)
	}

	results, err := extractSummaries(doc, key, rule.ItemSelector, rule.Fields, rule.Image)
	if err != nil {
		return ListingRecord{}, err
	}

	pages, err := NewExtractionEngine(key, paginationFields).ExtractAll(doc.Selection)
	if err != nil {
		return ListingRecord{}, err
	}

	totalPages := normalize.Count(pages["total_pages"])
	if totalPages == 0 && len(results) > 0 {
		// No last-page control: the current page is the last one.
		totalPages = key.Page
	}

	return ListingRecord{
		Kind:         key.Type,
		Page:         key.Page,
		Results:      results,
		TotalResults: normalize.Count(pages["total_results"]),
		TotalPages:   totalPages,
	}, nil
}

// ExtractGenreList applies the genre list rule.
func ExtractGenreList(doc *goquery.Document, key ResourceKey) (GenreListRecord, error) {
	genres, err := extractTags(doc, key, genreListSelector)
	if err != nil {
		return GenreListRecord{}, err
	}
	return GenreListRecord{Genres: genres}, nil
}

// ExtractReviews applies the reviews rule.
func ExtractReviews(doc *goquery.Document, key ResourceKey) (ReviewsRecord, error) {
	items, err := NewExtractionEngine(key, reviewFields).ExtractEach(doc.Selection, reviewSelector)
	if err != nil {
		return ReviewsRecord{}, err
	}
	reviews := make([]Review, 0, len(items))
	for _, it := range items {
		reviews = append(reviews, Review{Author: it["author"], Content: it["content"]})
	}
	return ReviewsRecord{
		ID:           key.ID,
		Results:      reviews,
		TotalResults: len(reviews),
		TotalPages:   1,
	}, nil
}

// ExtractKeywords applies the keywords rule.
func ExtractKeywords(doc *goquery.Document, key ResourceKey) (KeywordsRecord, error) {
	if _, err := NewExtractionEngine(key, titleAnchor).ExtractAll(doc.Selection); err != nil {
		return KeywordsRecord{}, err
	}
	keywords, err := extractTags(doc, key, keywordTagSelector)
	if err != nil {
		return KeywordsRecord{}, err
	}
	return KeywordsRecord{ID: key.ID, Keywords: keywords}, nil
}
