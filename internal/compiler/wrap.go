package compiler

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// DefaultFilterID is the id of the filter element produced by Wrap.
const DefaultFilterID = "svgfm-filter"

// Subject selects what the preview document applies the filter to.
type Subject string

const (
	SubjectText  Subject = "text"
	SubjectImage Subject = "image"
)

// WrapOptions configure the preview document. Zero values take defaults.
type WrapOptions struct {
	FilterID string
	Width    int
	Height   int
	Subject  Subject
	// Text is the preview text for SubjectText.
	Text string
	// Href is the image location for SubjectImage.
	Href string
}

func (o WrapOptions) withDefaults() WrapOptions {
	if o.FilterID == "" {
		o.FilterID = DefaultFilterID
	}
	if o.Width <= 0 {
		o.Width = 300
	}
	if o.Height <= 0 {
		o.Height = 150
	}
	if o.Subject == "" {
		o.Subject = SubjectText
	}
	if o.Text == "" {
		o.Text = "filter"
	}
	if o.Href == "" {
		o.Href = "./icon.svg"
	}
	return o
}

// StepFilterID is the filter id used for the preview of a single step.
func StepFilterID(nodeID string) string {
	return "filter-at-step-" + nodeID
}

// Filter wraps compiled elements in a filter element.
func Filter(elements []*Element, id string) *Element {
	return &Element{
		Name:     "filter",
		Attrs:    attrs("id", id),
		Children: elements,
	}
}

// Wrap embeds compiled elements into a standalone preview document that
// applies the filter to a text or image subject.
func Wrap(elements []*Element, opts WrapOptions) (string, error) {
	opts = opts.withDefaults()
	w, h := strconv.Itoa(opts.Width), strconv.Itoa(opts.Height)
	filterRef := "url(#" + opts.FilterID + ")"

	var subject *Element
	switch opts.Subject {
	case SubjectImage:
		subject = &Element{Name: "image", Attrs: attrs(
			"href", opts.Href,
			"width", "100%",
			"height", "100%",
			"filter", filterRef,
		)}
	case SubjectText:
		subject = &Element{Name: "text", Text: opts.Text, Attrs: attrs(
			"x", "50%",
			"y", "50%",
			"dominant-baseline", "middle",
			"text-anchor", "middle",
			"font-size", "48",
			"filter", filterRef,
		)}
	default:
		return "", fmt.Errorf("unknown preview subject %q", opts.Subject)
	}

	svg := &Element{
		Name: "svg",
		Attrs: attrs(
			"xmlns", "http://www.w3.org/2000/svg",
			"width", w,
			"height", h,
			"viewBox", "0 0 "+w+" "+h,
		),
		Children: []*Element{
			{Name: "defs", Children: []*Element{Filter(elements, opts.FilterID)}},
			subject,
		},
	}
	out, err := Marshal([]*Element{svg}, "")
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

// attrs turns name/value pairs into attributes.
func attrs(pairs ...string) []xml.Attr {
	out := make([]xml.Attr, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, xml.Attr{Name: xml.Name{Local: pairs[i]}, Value: pairs[i+1]})
	}
	return out
}
