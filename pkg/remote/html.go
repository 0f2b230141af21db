package remote

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/glorpus-work/goup/pkg/errors"
	"github.com/glorpus-work/goup/pkg/index"
)

const (
	mirrorPathPrefix = "/golang/"
	sourceSuffix     = ".src.tar.gz"
)

func (r *RegistryIndex) scrape(ctx context.Context, entries func(*html.Node) []string) ([]string, error) {
	body, err := r.get(ctx, r.spec.Host)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrParse, "parse listing at %s: %v", r.spec.Host, err)
	}
	var versions []string
	for _, name := range entries(doc) {
		if v, ok := versionFromSourceArchive(name); ok {
			versions = append(versions, v)
		}
	}
	return index.New(versions).Versions, nil
}

// versionFromSourceArchive maps "go1.22.3.src.tar.gz" to "1.22.3".
func versionFromSourceArchive(name string) (string, bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), mirrorPathPrefix)
	if !strings.HasPrefix(name, "go") || !strings.HasSuffix(name, sourceSuffix) {
		return "", false
	}
	v := strings.TrimSuffix(strings.TrimPrefix(name, "go"), sourceSuffix)
	return v, v != ""
}

// autoIndexEntries returns the href of every anchor inside a <pre>, the
// layout of nginx autoindex pages.
func autoIndexEntries(doc *html.Node) []string {
	var out []string
	walk(doc, func(n *html.Node) {
		if isElement(n, "a") && hasAncestors(n, "pre") {
			if href, ok := attr(n, "href"); ok {
				out = append(out, href)
			}
		}
	})
	return out
}

// fancyIndexEntries returns the text of every anchor in a table cell, the
// layout of nginx fancyindex pages.
func fancyIndexEntries(doc *html.Node) []string {
	var out []string
	walk(doc, func(n *html.Node) {
		if isElement(n, "a") && hasAncestors(n, "td", "tr", "tbody", "table") {
			out = append(out, text(n))
		}
	})
	return out
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// hasAncestors reports whether n is nested inside the given tags, innermost
// first, with any elements in between.
func hasAncestors(n *html.Node, tags ...string) bool {
	p := n.Parent
	for _, tag := range tags {
		for p != nil && !isElement(p, tag) {
			p = p.Parent
		}
		if p == nil {
			return false
		}
		p = p.Parent
	}
	return true
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}
