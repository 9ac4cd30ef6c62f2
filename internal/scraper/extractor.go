// internal/scraper/extractor.go
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FieldType selects how a value is read from the matched element.
type FieldType string

const (
	// TypeText reads the combined text of the element and its descendants.
	TypeText FieldType = "text"
	// TypeHTML reads the inner HTML of the element.
	TypeHTML FieldType = "html"
	// TypeAttr reads FieldConfig.Attribute.
	TypeAttr FieldType = "attr"
	// TypeOwnText reads only the element's direct text nodes.
	TypeOwnText FieldType = "own_text"
)

// Transform is a string normalizer applied after extraction.
type Transform func(string) string

// FieldConfig declares how one output field is extracted.
type FieldConfig struct {
	Name      string
	Selector  string // empty selects the root itself
	Type      FieldType
	Attribute string
	Required  bool
	// Filter keeps the first matched element satisfying the predicate.
	Filter    func(*goquery.Selection) bool
	Transform []Transform
}

// FieldExtractor handles extraction and transformation of individual fields
type FieldExtractor struct {
	config FieldConfig
	root   *goquery.Selection
}

// NewFieldExtractor creates a new field extractor scoped to root.
func NewFieldExtractor(config FieldConfig, root *goquery.Selection) *FieldExtractor {
	return &FieldExtractor{
		config: config,
		root:   root,
	}
}

// Extract returns the transformed value and whether the field was found.
// A missing field yields "" and false.
func (fe *FieldExtractor) Extract() (string, bool) {
	value, found := fe.extractRawValue()
	if !found {
		return "", false
	}
	for _, t := range fe.config.Transform {
		value = t(value)
	}
	return value, true
}

// extractRawValue extracts the raw value based on field type
func (fe *FieldExtractor) extractRawValue() (string, bool) {
	if fe.root == nil {
		return "", false
	}

	selection := fe.root
	if fe.config.Selector != "" {
		selection = fe.root.Find(fe.config.Selector)
	}
	if fe.config.Filter != nil {
		selection = selection.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return fe.config.Filter(s)
		})
	}
	if selection.Length() == 0 {
		return "", false
	}
	first := selection.First()

	switch fe.config.Type {
	case TypeHTML:
		h, err := first.Html()
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(h), true
	case TypeAttr:
		v, ok := first.Attr(fe.config.Attribute)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	case TypeOwnText:
		return strings.TrimSpace(OwnText(first)), true
	default:
		return strings.TrimSpace(first.Text()), true
	}
}

// OwnText returns the text of the direct text-node children of the first
// element in s, excluding text of nested elements.
func OwnText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// ExtractionEngine applies a table of FieldConfigs on behalf of one resource.
type ExtractionEngine struct {
	key    ResourceKey
	fields []FieldConfig
}

// NewExtractionEngine creates a new field extraction engine
func NewExtractionEngine(key ResourceKey, fields []FieldConfig) *ExtractionEngine {
	return &ExtractionEngine{
		key:    key,
		fields: fields,
	}
}

// ExtractAll extracts every configured field below root. Optional fields that
// are missing map to "". A required field that is missing or empty fails the
// whole extraction with *ExtractionError.
func (ee *ExtractionEngine) ExtractAll(root *goquery.Selection) (map[string]string, error) {
	data := make(map[string]string, len(ee.fields))
	for _, field := range ee.fields {
		value, found := NewFieldExtractor(field, root).Extract()
		if field.Required && (!found || value == "") {
			return nil, &ExtractionError{Field: field.Name, Selector: field.Selector, Key: ee.key}
		}
		data[field.Name] = value
	}
	return data, nil
}

// ExtractEach runs ExtractAll once per element matching itemSelector, in
// document order.
func (ee *ExtractionEngine) ExtractEach(root *goquery.Selection, itemSelector string) ([]map[string]string, error) {
	var (
		items    []map[string]string
		firstErr error
	)
	root.Find(itemSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		data, err := ee.ExtractAll(s)
		if err != nil {
			firstErr = err
			return false
		}
		items = append(items, data)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return items, nil
}

// validateFieldConfig validates a single field configuration
func validateFieldConfig(field FieldConfig) error {
	if strings.TrimSpace(field.Name) == "" {
		return fmt.Errorf("field name cannot be empty")
	}

	switch field.Type {
	case TypeText, TypeHTML, TypeOwnText:
	case TypeAttr:
		if field.Attribute == "" {
			return fmt.Errorf("field %s: attribute name required for attr type", field.Name)
		}
	default:
		return fmt.Errorf("field %s: invalid field type: %s", field.Name, field.Type)
	}

	if field.Required && field.Selector == "" {
		return fmt.Errorf("field %s: required fields need a selector", field.Name)
	}
	return nil
}
