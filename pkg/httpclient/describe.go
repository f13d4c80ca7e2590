package httpclient

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSnippetBytes = 512

var messageKeys = []string{"message", "error", "msg", "detail"}

// describeFailure builds a one-line message for an HTTP-level failure.
func describeFailure(status int, header http.Header, raw []byte, decoded any) string {
	prefix := fmt.Sprintf("HTTP %d", status)
	if text := http.StatusText(status); text != "" {
		prefix += " " + text
	}

	if msg := messageFromJSON(decoded); msg != "" {
		return prefix + ": " + msg
	}
	if isHTML(header, raw) {
		if title := htmlTitle(raw); title != "" {
			return prefix + ": " + title
		}
	}
	if snippet := bodySnippet(raw); snippet != "" {
		return prefix + ": " + snippet
	}
	return prefix
}

func messageFromJSON(decoded any) string {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range messageKeys {
		switch v := obj[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]any:
			if nested := messageFromJSON(v); nested != "" {
				return nested
			}
		}
	}
	return ""
}

func isHTML(header http.Header, raw []byte) bool {
	if strings.Contains(strings.ToLower(header.Get(HeaderContentType)), "html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(raw))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func htmlTitle(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	return firstNonEmpty(
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)
}

func bodySnippet(body []byte) string {
	if len(body) > maxSnippetBytes {
		body = body[:maxSnippetBytes]
	}
	return strings.Join(strings.Fields(string(body)), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.Join(strings.Fields(v), " "); s != "" {
			return s
		}
	}
	return ""
}
