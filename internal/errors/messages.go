// internal/errors/messages.go - CLI presentation of engine failures
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/valpere/ScrapeCache/internal/config"
	"github.com/valpere/ScrapeCache/internal/scraper"
)

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitConfig     = 2
	ExitFetch      = 3
	ExitParse      = 4
	ExitExtraction = 5
	ExitInvalid    = 6
)

// MessageHandler converts technical errors to user-friendly messages
type MessageHandler struct {
	showTechnical bool
}

// NewMessageHandler creates a handler. With showTechnical the raw error is
// appended to every formatted message.
func NewMessageHandler(showTechnical bool) *MessageHandler {
	return &MessageHandler{showTechnical: showTechnical}
}

// UserFriendly returns a title, a one-line explanation and suggestions for err.
func (h *MessageHandler) UserFriendly(err error) (title, message string, suggestions []string) {
	if err == nil {
		return "", "", nil
	}

	if isConfigError(err) {
		return "Configuration Error",
			"The configuration file could not be loaded.",
			[]string{
				"Run 'scrapecache config validate <file>' for details",
				"Check YAML indentation (use spaces, not tabs)",
			}
	}

	var fe *scraper.FetchError
	if stderrors.As(err, &fe) {
		switch {
		case fe.StatusCode == 404:
			return "Page Not Found",
				"The source site has no page for this resource.",
				[]string{"Check the resource id"}
		case fe.StatusCode == 429:
			return "Rate Limit Exceeded",
				"The source site is refusing requests made this quickly.",
				[]string{"Lower source.rate_limit in the configuration"}
		case fe.StatusCode > 0:
			return "Source Error",
				fmt.Sprintf("The source site answered with HTTP %d.", fe.StatusCode),
				[]string{"Try again later"}
		}
		if strings.Contains(strings.ToLower(fe.Error()), "timeout") {
			return "Connection Timeout",
				"The request timed out while waiting for the source site.",
				[]string{
					"Check your internet connection",
					"Increase source.timeout in the configuration",
				}
		}
		return "Connection Failed",
			"Could not reach the source site.",
			[]string{
				"Check your internet connection",
				"Check source.base_url and source.proxy_url",
			}
	}

	switch scraper.KindOf(err) {
	case scraper.KindInvalid:
		return "Invalid Request",
			"The resource type, id or page is not valid.",
			[]string{"Run 'scrapecache fetch --help' for the accepted types"}
	case scraper.KindParse:
		return "Unreadable Page",
			"The source page could not be parsed as HTML.",
			nil
	case scraper.KindExtraction:
		return "Element Not Found",
			"A required element was missing from the source page.",
			[]string{
				"Verify the resource exists on the site",
				"The website structure might have changed",
			}
	}

	return "Command Failed",
		err.Error(),
		[]string{"Run 'scrapecache --help' for usage"}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if isConfigError(err) {
		return ExitConfig
	}
	switch scraper.KindOf(err) {
	case scraper.KindFetch:
		return ExitFetch
	case scraper.KindParse:
		return ExitParse
	case scraper.KindExtraction:
		return ExitExtraction
	case scraper.KindInvalid:
		return ExitInvalid
	}
	return ExitGeneral
}

// FormatForCLI formats err for command-line display.
func (h *MessageHandler) FormatForCLI(err error) string {
	title, message, suggestions := h.UserFriendly(err)

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n%s\n", title, message)

	if h.showTechnical {
		fmt.Fprintf(&b, "\nTechnical details: %s\n", err.Error())
	}

	if len(suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	return b.String()
}

func isConfigError(err error) bool {
	return stderrors.Is(err, config.ErrLoad)
}
