// internal/scraper/extractor_test.go
package scraper

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestFieldExtractor_Extract(t *testing.T) {
	doc := parseString(t, `<html><body>
<h1>  Test Title  </h1>
<div class="bio"><p>Some <b>bold</b> text</p></div>
<a class="link" href=" /42/slug.html ">Link</a>
<ul><li><small>Length:</small> 2 hrs. 5 mins.</li></ul>
</body></html>`)

	tests := []struct {
		name   string
		config FieldConfig
		want   string
		found  bool
	}{
		{
			name:   "text is trimmed",
			config: FieldConfig{Name: "title", Selector: "h1", Type: TypeText},
			want:   "Test Title",
			found:  true,
		},
		{
			name:   "inner html",
			config: FieldConfig{Name: "bio", Selector: ".bio", Type: TypeHTML},
			want:   "<p>Some <b>bold</b> text</p>",
			found:  true,
		},
		{
			name:   "attribute with transform",
			config: FieldConfig{Name: "id", Selector: "a.link", Type: TypeAttr, Attribute: "href", Transform: []Transform{strings.ToUpper}},
			want:   "/42/SLUG.HTML",
			found:  true,
		},
		{
			name:   "own text skips nested elements",
			config: FieldConfig{Name: "runtime", Selector: "li", Type: TypeOwnText},
			want:   "2 hrs. 5 mins.",
			found:  true,
		},
		{
			name:   "missing attribute",
			config: FieldConfig{Name: "x", Selector: "a.link", Type: TypeAttr, Attribute: "data-missing"},
			want:   "",
			found:  false,
		},
		{
			name:   "missing element",
			config: FieldConfig{Name: "x", Selector: ".nothing", Type: TypeText},
			want:   "",
			found:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := NewFieldExtractor(tt.config, doc.Selection).Extract()
			if got != tt.want || found != tt.found {
				t.Errorf("Extract() = (%q, %v), want (%q, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}

func TestFieldExtractor_FilterTakesFirstMatch(t *testing.T) {
	doc := parseString(t, `<html><body>
<span data-kind="a">first</span>
<span data-kind="b">second</span>
<span data-kind="b">third</span>
</body></html>`)

	config := FieldConfig{
		Name:     "kind_b",
		Selector: "span",
		Type:     TypeText,
		Filter: func(s *goquery.Selection) bool {
			v, _ := s.Attr("data-kind")
			return v == "b"
		},
	}

	got, found := NewFieldExtractor(config, doc.Selection).Extract()
	if !found || got != "second" {
		t.Errorf("Expected ('second', true), got (%q, %v)", got, found)
	}
}

func TestFieldExtractor_EmptySelectorReadsRoot(t *testing.T) {
	doc := parseString(t, `<html><body><a href="/7/x.html">Seven</a></body></html>`)
	root := doc.Find("a")

	got, found := NewFieldExtractor(FieldConfig{Name: "name", Type: TypeText}, root).Extract()
	if !found || got != "Seven" {
		t.Errorf("Expected ('Seven', true), got (%q, %v)", got, found)
	}
}

func TestExtractionEngine_RequiredField(t *testing.T) {
	key := ResourceKey{Type: ResourceMovie, ID: "1"}
	fields := []FieldConfig{
		{Name: "title", Selector: "h1", Type: TypeText, Required: true},
		{Name: "subtitle", Selector: "h2", Type: TypeText},
	}

	t.Run("present", func(t *testing.T) {
		doc := parseString(t, `<html><body><h1>Title</h1></body></html>`)
		data, err := NewExtractionEngine(key, fields).ExtractAll(doc.Selection)
		if err != nil {
			t.Fatalf("ExtractAll failed: %v", err)
		}
		if data["title"] != "Title" {
			t.Errorf("Expected title 'Title', got '%s'", data["title"])
		}
		if v, ok := data["subtitle"]; !ok || v != "" {
			t.Errorf("Expected missing optional field to map to empty string, got %q (present=%v)", v, ok)
		}
	})

	t.Run("empty", func(t *testing.T) {
		doc := parseString(t, `<html><body><h1>   </h1></body></html>`)
		_, err := NewExtractionEngine(key, fields).ExtractAll(doc.Selection)
		var xe *ExtractionError
		if !errors.As(err, &xe) {
			t.Fatalf("Expected *ExtractionError, got %v", err)
		}
		if xe.Key != key {
			t.Errorf("Expected key %v, got %v", key, xe.Key)
		}
	})
}

func TestExtractionEngine_ExtractEach(t *testing.T) {
	doc := parseString(t, `<html><body>
<ul><li><a href="/1/a.html">A</a></li><li><a href="/2/b.html">B</a></li></ul>
</body></html>`)

	items, err := NewExtractionEngine(ResourceKey{Type: ResourceGenres}, linkFields).ExtractEach(doc.Selection, "li a")
	if err != nil {
		t.Fatalf("ExtractEach failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0]["id"] != "1" || items[1]["name"] != "B" {
		t.Errorf("Unexpected items: %v", items)
	}
}

func TestValidateFieldConfig(t *testing.T) {
	tests := []struct {
		name    string
		field   FieldConfig
		wantErr bool
	}{
		{"valid text", FieldConfig{Name: "a", Selector: "h1", Type: TypeText}, false},
		{"empty name", FieldConfig{Selector: "h1", Type: TypeText}, true},
		{"attr without attribute", FieldConfig{Name: "a", Selector: "a", Type: TypeAttr}, true},
		{"unknown type", FieldConfig{Name: "a", Selector: "a", Type: "number"}, true},
		{"required without selector", FieldConfig{Name: "a", Type: TypeText, Required: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldConfig(tt.field)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFieldConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
