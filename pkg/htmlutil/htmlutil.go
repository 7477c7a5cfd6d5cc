// Package htmlutil has small helpers for walking parsed HTML documents.
package htmlutil

import (
	"golang.org/x/net/html"
)

// Visit calls fn on node and then on each of its descendants, in document
// order.
func Visit(node *html.Node, fn func(*html.Node)) {
	fn(node)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		Visit(child, fn)
	}
}

// Attr returns the value of the named un-namespaced attribute.
func Attr(node *html.Node, name string) (val string, ok bool) {
	if node == nil {
		return "", false
	}
	for _, attr := range node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}
