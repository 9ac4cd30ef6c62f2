// internal/scraper/types.go
package scraper

import (
	"fmt"
	"strconv"

	"github.com/valpere/ScrapeCache/internal/normalize"
)

// ResourceType identifies one extraction rule and one cache namespace.
type ResourceType string

const (
	ResourceMovie          ResourceType = "movie"
	ResourceCredits        ResourceType = "credits"
	ResourcePerson         ResourceType = "person"
	ResourceDiscover       ResourceType = "discover"
	ResourcePopular        ResourceType = "popular"
	ResourceTopRated       ResourceType = "top_rated"
	ResourceUpcoming       ResourceType = "upcoming"
	ResourcePopularPersons ResourceType = "popular_persons"
	ResourceGenres         ResourceType = "genres"
	ResourceReviews        ResourceType = "reviews"
	ResourceKeywords       ResourceType = "keywords"
)

// ListingKinds are the resource types served by Engine.Listing.
var ListingKinds = []ResourceType{
	ResourceDiscover,
	ResourcePopular,
	ResourceTopRated,
	ResourceUpcoming,
	ResourcePopularPersons,
}

// IsListing reports whether t is a paginated listing kind.
func (t ResourceType) IsListing() bool {
	for _, k := range ListingKinds {
		if k == t {
			return true
		}
	}
	return false
}

// ResourceKey uniquely identifies a cache entry.
type ResourceKey struct {
	Type ResourceType `json:"type"`
	ID   string       `json:"id,omitempty"`
	Page int          `json:"page,omitempty"`
}

// String renders the cache slot, e.g. "movie:123" or "discover::2".
func (k ResourceKey) String() string {
	if k.Page > 0 {
		return fmt.Sprintf("%s:%s:%s", k.Type, k.ID, strconv.Itoa(k.Page))
	}
	return fmt.Sprintf("%s:%s", k.Type, k.ID)
}

// ImageKind fixes how the local path is derived from an image URL and
// which CDN base, if any, the canonical URL is rebuilt on.
type ImageKind struct {
	Name       string
	SplitIndex int
	BaseURL    string
	// Canonical rebuilds the remote URL as BaseURL+path instead of keeping
	// the extracted URL.
	Canonical bool
	// Suffix is appended to an identifier when the URL is built from an id.
	Suffix string
}

// Image kinds used by the catalogue pages.
var (
	BackdropImage = ImageKind{Name: "backdrop", SplitIndex: 6, BaseURL: "https://caps1cdn.adultempire.com/o/1920/1080/", Canonical: true}
	PosterImage   = ImageKind{Name: "poster", SplitIndex: 5, BaseURL: "https://imgs1cdn.adultempire.com/products/"}
	ProfileImage  = ImageKind{Name: "profile", SplitIndex: 4, BaseURL: "https://imgs1cdn.adultempire.com/actors/", Suffix: "h.jpg"}
	StudioImage   = ImageKind{Name: "studio", SplitIndex: 4, BaseURL: "https://imgs1cdn.adultempire.com/studio/", Suffix: ".jpg"}
)

// ImageRef pairs a remote image URL with the local path segment derived from it.
type ImageRef struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// IsZero reports whether the reference is empty.
func (r ImageRef) IsZero() bool {
	return r.URL == "" && r.Path == ""
}

// Ref derives an ImageRef from rawURL. The path always comes from the same
// URL the remote reference is built from. Non-canonical kinds keep rawURL even
// when it is too short to yield a path; a canonical URL cannot be rebuilt
// without one, so that ref is empty.
func (k ImageKind) Ref(rawURL string) ImageRef {
	path := normalize.LocalPath(rawURL, k.SplitIndex)
	if k.Canonical {
		if path == "" {
			return ImageRef{}
		}
		return ImageRef{URL: k.BaseURL + path, Path: path}
	}
	if rawURL == "" {
		return ImageRef{}
	}
	return ImageRef{URL: rawURL, Path: path}
}

// RefForID builds the image URL for an identifier, then derives the ref.
// An empty id yields an empty ref.
func (k ImageKind) RefForID(id string) ImageRef {
	if id == "" {
		return ImageRef{}
	}
	return k.Ref(k.BaseURL + id + k.Suffix)
}

// Tag is an (id, name) pair: genres, keywords and genre list entries.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CastMember is a performer credited on a title.
type CastMember struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Profile    ImageRef `json:"profile"`
	Department string   `json:"known_for_department"`
}

// CrewMember is a director or studio credited on a title.
type CrewMember struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Profile    ImageRef `json:"profile"`
	Department string   `json:"department"`
}

// Departments assigned to credits.
const (
	DepartmentActing    = "Acting"
	DepartmentDirecting = "Directing"
)

// Summary is one entry of a listing or of a movie's similar titles.
type Summary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Poster   ImageRef `json:"poster"`
	Backdrop ImageRef `json:"backdrop"`
}

// MovieRecord is the full detail page of a title.
type MovieRecord struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Backdrop    ImageRef     `json:"backdrop"`
	Genres      []Tag        `json:"genres"`
	Overview    string       `json:"overview"`
	Poster      ImageRef     `json:"poster"`
	Runtime     int          `json:"runtime"`
	VoteAverage string       `json:"vote_average"`
	VoteCount   int          `json:"vote_count"`
	Backdrops   []ImageRef   `json:"backdrops"`
	Similar     []Summary    `json:"similar"`
	Cast        []CastMember `json:"cast"`
	Crew        []CrewMember `json:"crew"`
}

// CreditsRecord is the cast and crew of a title.
type CreditsRecord struct {
	ID   string       `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// PersonRecord is a performer profile.
type PersonRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Biography string   `json:"biography"`
	Profile   ImageRef `json:"profile"`
}

// ListingRecord is one page of a paginated listing.
type ListingRecord struct {
	Kind         ResourceType `json:"kind"`
	Page         int          `json:"page"`
	Results      []Summary    `json:"results"`
	TotalResults int          `json:"total_results"`
	TotalPages   int          `json:"total_pages"`
}

// GenreListRecord lists genres in source order; duplicates are kept.
type GenreListRecord struct {
	Genres []Tag `json:"genres"`
}

// Review is a single user review.
type Review struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// ReviewsRecord holds every review of a title. The site renders them on a
// single page, so TotalPages is always 1.
type ReviewsRecord struct {
	ID           string   `json:"id"`
	Results      []Review `json:"results"`
	TotalResults int      `json:"total_results"`
	TotalPages   int      `json:"total_pages"`
}

// KeywordsRecord holds the keyword tags of one title.
type KeywordsRecord struct {
	ID       string `json:"id"`
	Keywords []Tag  `json:"keywords"`
}

// ImagesConfiguration lists the CDN bases used to resolve image paths.
type ImagesConfiguration struct {
	BackdropBaseURL string   `json:"backdrop_base_url"`
	PosterBaseURL   string   `json:"poster_base_url"`
	ProfileBaseURL  string   `json:"profile_base_url"`
	StudioBaseURL   string   `json:"studio_base_url"`
	BackdropSizes   []string `json:"backdrop_sizes"`
	PosterSizes     []string `json:"poster_sizes"`
	ProfileSizes    []string `json:"profile_sizes"`
}

// ConfigurationRecord is static data; it is neither fetched nor cached.
type ConfigurationRecord struct {
	Images ImagesConfiguration `json:"images"`
}
