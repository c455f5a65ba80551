package editor

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxLabelLength is the longest label accepted for an entry.
const MaxLabelLength = 50

// Entry is the label and link submitted for a new or edited menu node.
type Entry struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// EntryError reports an entry field that failed validation.
type EntryError struct {
	Field  string
	Reason string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the label length and that the URL is either an in-page
// anchor starting with "#" or an absolute http, https or ftp URL.
func (e Entry) Validate() error {
	n := utf8.RuneCountInString(e.Label)
	switch {
	case strings.TrimSpace(e.Label) == "":
		return &EntryError{Field: "label", Reason: "required"}
	case n > MaxLabelLength:
		return &EntryError{Field: "label", Reason: fmt.Sprintf("must be at most %d characters", MaxLabelLength)}
	}

	if strings.HasPrefix(e.URL, "#") {
		return nil
	}
	if e.URL == "" {
		return &EntryError{Field: "url", Reason: "required"}
	}
	u, err := url.ParseRequestURI(e.URL)
	if err != nil || !linkSchemes[strings.ToLower(u.Scheme)] || u.Host == "" {
		return &EntryError{Field: "url", Reason: "must start with # or be an absolute http, https or ftp URL"}
	}
	return nil
}

var linkSchemes = map[string]bool{"http": true, "https": true, "ftp": true}
