// internal/normalize/normalize_test.go
package normalize

import "testing"

func TestMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2 hrs. 15 mins.", 135},
		{"1 hr. 30 mins.", 90},
		{"0 hrs. 45 mins.", 45},
		{"  3hrs.5mins. ", 185},
		{"garbled", 0},
		{"", 0},
		{"90 mins.", 0},
	}

	for _, tt := range tests {
		if got := Minutes(tt.in); got != tt.want {
			t.Errorf("Minutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12,345", 12345},
		{"1,234,567", 1234567},
		{" 42 ", 42},
		{"", 0},
		{"n/a", 0},
		{"-5", 0},
	}

	for _, tt := range tests {
		if got := Count(tt.in); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLocalPath(t *testing.T) {
	backdrop := "https://caps1cdn.adultempire.com/o/1920/1080/abc.jpg"

	if got := LocalPath(backdrop, 6); got != "abc.jpg" {
		t.Errorf("expected abc.jpg, got %q", got)
	}
	if got := LocalPath(backdrop, 12); got != "" {
		t.Errorf("expected empty for short url, got %q", got)
	}
	if got := LocalPath("", 1); got != "" {
		t.Errorf("expected empty for empty url, got %q", got)
	}
}

func TestIDFromHref(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/12345/example-movie.html", "12345"},
		{"/678/", "678"},
		{"  /42 ", "42"},
		{"", ""},
		{"/", ""},
		{"noslash", ""},
	}

	for _, tt := range tests {
		if got := IDFromHref(tt.href); got != tt.want {
			t.Errorf("IDFromHref(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Example Movie - On Sale! Free Shipping", "Example Movie"},
		{"\n\t  Example\n\tMovie  \n", "Example Movie"},
		{"Plain Title", "Plain Title"},
		{"Sale Title\n - On Sale!", "Sale Title"},
	}

	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBackgroundURL(t *testing.T) {
	tests := []struct {
		style string
		want  string
	}{
		{"background-image: url(https://cdn.test/a/b.jpg); height: 10px", "https://cdn.test/a/b.jpg"},
		{"background-image:url('https://cdn.test/c.jpg')", "https://cdn.test/c.jpg"},
		{"color: red", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := BackgroundURL(tt.style); got != tt.want {
			t.Errorf("BackgroundURL(%q) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestStripLabel(t *testing.T) {
	if got := StripLabel("  Length: 1 hr. 30 mins. ", "Length:"); got != "1 hr. 30 mins." {
		t.Errorf("unexpected result %q", got)
	}
	if got := StripLabel("1 hr. 30 mins.", "Length:"); got != "1 hr. 30 mins." {
		t.Errorf("unlabelled text should pass through, got %q", got)
	}
}
