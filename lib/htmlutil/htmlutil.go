package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText turns non-breaking spaces into spaces, collapses whitespace runs and trims.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Text is CleanText over the combined text of a selection.
func Text(sel *goquery.Selection) string {
	return CleanText(sel.Text())
}

// FindByText returns the first element matching `selector` under `root` whose
// cleaned text equals the cleaned `text`. The returned selection is empty when
// nothing matches.
func FindByText(root *goquery.Selection, selector, text string) *goquery.Selection {
	want := CleanText(text)
	return root.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return Text(s) == want
	}).First()
}

// FindNext returns the first element matching `selector` that comes after the
// first node of `from` in document order. Like a forward scan over the page, it
// visits the descendants of `from` first, then its following siblings and the
// following siblings of its ancestors.
func FindNext(from *goquery.Selection, selector string) *goquery.Selection {
	empty := from.Slice(0, 0)
	if from.Length() == 0 {
		return empty
	}
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return empty
	}

	var found *html.Node
	for n := nextInOrder(from.Get(0)); n != nil; n = nextInOrder(n) {
		if n.Type == html.ElementNode && matcher.Match(n) {
			found = n
			break
		}
	}
	if found == nil {
		return empty
	}
	return goquery.NewDocumentFromNode(found).Selection
}

func nextInOrder(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors collects the anchors of a selection with their hrefs resolved
// against `base`. Anchors without an href, or with one that does not parse,
// are skipped.
func GetAnchors(sel *goquery.Selection, base *url.URL) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = strings.TrimSpace(a.Val)
				break
			}
		}
		if href == "" {
			continue
		}

		link, err := url.Parse(href)
		if err != nil {
			continue
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		anchors = append(anchors, Anchor{
			Name: CleanText(GetText(n)),
			Href: link.String(),
		})
	}
	return anchors
}
