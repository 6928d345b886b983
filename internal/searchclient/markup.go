// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package searchclient

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/goalcast/pkg/types"
)

// ResultClass marks a team entry in a legacy HTML search fragment.
const ResultClass = "team-result"

// TeamsFromMarkup extracts teams from an HTML fragment. Every element whose
// class list contains ResultClass contributes one team, read from its
// data-team-id and data-team-name attributes, in document order. Entries
// without an identifier are skipped; a missing name falls back to the
// element's text.
func TeamsFromMarkup(r io.Reader) ([]types.Team, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	teams := []types.Team{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, ResultClass) {
			id := strings.TrimSpace(attr(n, "data-team-id"))
			if id != "" {
				name := strings.TrimSpace(attr(n, "data-team-name"))
				if name == "" {
					name = collapse(textOf(n))
				}
				teams = append(teams, types.Team{
					ID:      id,
					Name:    name,
					Country: strings.TrimSpace(attr(n, "data-team-country")),
				})
			}
			// Nested results are not expected; don't descend.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return teams, nil
}

// VisibleText returns the human-readable text of an HTML page, one text run
// per line, skipping head, script and style content.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "head", "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if s := collapse(n.Data); s != "" {
				lines = append(lines, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(lines, "\n"), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
