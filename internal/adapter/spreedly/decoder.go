package spreedly

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"spreedly-bot/internal/domain/model"
)

// element is the generic tree an XML body is read into before conversion.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	text     strings.Builder
}

// DecodeRecord reads an XML document and returns the root element's children
// as an ordered record. Rails-style type hints are honoured: nil="true",
// type="integer|boolean|decimal|float|array".
func DecodeRecord(r io.Reader) (*model.Record, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	return toRecord(root), nil
}

// DecodeList reads an XML document whose root wraps repeated elements (for
// example <gateways><gateway>...</gateway></gateways>) and returns one record
// per child.
func DecodeList(r io.Reader) ([]*model.Record, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}

	records := make([]*model.Record, 0, len(root.children))
	for _, child := range root.children {
		records = append(records, toRecord(child))
	}
	return records, nil
}

func parseTree(r io.Reader) (*element, error) {
	decoder := xml.NewDecoder(r)
	var stack []*element
	var root *element

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, attr := range t.Attr {
				el.attrs[attr.Name.Local] = attr.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("decode xml: empty document")
	}
	return root, nil
}

func toRecord(el *element) *model.Record {
	record := model.NewRecord()
	for _, child := range el.children {
		record.Set(child.name, toValue(child))
	}
	return record
}

func toValue(el *element) model.Value {
	if el.attrs["nil"] == "true" {
		return model.Null()
	}

	if el.attrs["type"] == "array" || isHomogeneousList(el) {
		items := make([]model.Value, 0, len(el.children))
		for _, child := range el.children {
			items = append(items, toValue(child))
		}
		return model.Array(items...)
	}

	if len(el.children) > 0 {
		return model.Nested(toRecord(el))
	}

	return toScalar(el.attrs["type"], strings.TrimSpace(el.text.String()))
}

// isHomogeneousList reports whether the element is a list the API wrote
// without type="array": two or more children sharing one name, or a plural
// wrapper such as <errors> around a single <error>.
func isHomogeneousList(el *element) bool {
	switch len(el.children) {
	case 0:
		return false
	case 1:
		return isPluralOf(el.name, el.children[0].name)
	}
	name := el.children[0].name
	for _, child := range el.children[1:] {
		if child.name != name {
			return false
		}
	}
	return true
}

func isPluralOf(plural, singular string) bool {
	if singular == "" {
		return false
	}
	if plural == singular+"s" || plural == singular+"es" {
		return true
	}
	return strings.HasSuffix(singular, "y") && plural == strings.TrimSuffix(singular, "y")+"ies"
}

func toScalar(typ, text string) model.Value {
	switch typ {
	case "integer":
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return model.Scalar(n)
		}
	case "boolean":
		if b, err := strconv.ParseBool(text); err == nil {
			return model.Scalar(b)
		}
	case "decimal", "float":
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return model.Scalar(f)
		}
	}

	if looksLikeMarkup(text) {
		text = strings.TrimSpace(htmlToText(text))
	}
	return model.Scalar(text)
}

func looksLikeMarkup(text string) bool {
	return strings.HasPrefix(text, "<") && strings.Contains(text, ">")
}

func htmlToText(input string) string {
	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}

	var builder strings.Builder
	extractText(node, &builder)
	return strings.Join(strings.Fields(builder.String()), " ")
}

func extractText(node *html.Node, builder *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
	case html.ElementNode:
		if node.Data == "script" || node.Data == "style" {
			return
		}
		if node.Data == "br" || node.Data == "p" || node.Data == "li" {
			builder.WriteRune(' ')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, builder)
	}
}
