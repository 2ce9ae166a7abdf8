package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

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

func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Lines returns the cleaned content of every text node under the given
// node, one entry per text node, empty segments dropped. Useful for
// elements whose visual lines are separated by <br> tags.
func Lines(node *html.Node) []string {
	var lines []string
	collectLines(node, &lines)
	return lines
}

func collectLines(node *html.Node, lines *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		line := CleanText(node.Data)
		if line != "" {
			*lines = append(*lines, line)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		collectLines(child, lines)
		child = child.NextSibling
	}
}
