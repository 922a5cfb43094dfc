package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("jenkinstools.lib.htmlutil")

// ParseFragment parses a snippet of markup, such as a single console log
// line, into a queryable document.
func ParseFragment(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(fragment))
}

func Text(node *html.Node) string {
	var buffer bytes.Buffer
	textRecursive(node, &buffer)
	return buffer.String()
}

func textRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		textRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Anchor is a single <a> element lifted out of a markup fragment.
type Anchor struct {
	Text string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func cleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Anchors returns every anchor in the selection, in document order.
// Anchors whose href does not parse as a URL are dropped.
func Anchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "Anchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			continue
		}

		text := cleanText(Text(n))
		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Text: text,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("text", text),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

// FragmentAnchors parses a markup fragment and returns its anchors.
// A fragment with no markup yields no anchors, not an error.
func FragmentAnchors(ctx context.Context, fragment string) ([]Anchor, error) {
	doc, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	return Anchors(ctx, doc.Find("a")), nil
}

// StripTags returns the text content of a fragment with all markup
// removed. Values that look like URLs are additionally percent-decoded,
// since Jenkins escapes parameter URLs when rendering them into the log.
func StripTags(fragment string) string {
	doc, err := ParseFragment(fragment)
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	text := strings.TrimSpace(doc.Text())
	if strings.HasPrefix(text, "http") {
		if decoded, err := url.QueryUnescape(text); err == nil {
			text = decoded
		}
	}
	return text
}
