package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Spacing is a paragraph spacing value: either a line-spacing multiple in
// thousandths of a percent, or an absolute distance in hundredths of a point.
type Spacing struct {
	Val    int
	Points bool // false: thousandths of a percent, true: hundredths of a point
}

// Run is a contiguous styled text span. Nil font attributes mean "not set";
// they are never written back, so the run keeps its inherited default.
type Run struct {
	Text        string
	Font        *string // latin typeface name
	Size        *int    // hundredths of a point
	Bold        *bool
	Italic      *bool
	Underline   *string // sng, dbl, none, ...
	Color       *string // RRGGBB
	SchemeColor *string // theme color name
}

// Paragraph holds the paragraph-level attributes the rewrite preserves plus
// the ordered runs. Zero-value Alignment and nil pointers mean "not set".
type Paragraph struct {
	Alignment   string // l, ctr, r, just, ...
	Level       *int
	LineSpacing *Spacing
	SpaceBefore *Spacing
	SpaceAfter  *Spacing
	Runs        []*Run
}

// Text returns the concatenated run text of the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// TextFrame is an ordered sequence of paragraphs backed by a byte region of a
// slide or notes part. Reading never touches the underlying bytes; replacing
// the paragraph list marks the frame for re-serialization on save.
type TextFrame struct {
	part       *part
	start, end int // region of the <a:p> list within part.raw
	Paragraphs []*Paragraph
	dirty      bool
}

// Text returns the flattened view of the frame: paragraph texts joined by
// line breaks.
func (f *TextFrame) Text() string {
	parts := make([]string, len(f.Paragraphs))
	for i, p := range f.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// ReplaceParagraphs swaps the frame's paragraph list and marks the frame for
// re-serialization. A frame always retains at least one paragraph node; an
// empty replacement collapses to a single empty paragraph.
func (f *TextFrame) ReplaceParagraphs(ps []*Paragraph) {
	if len(ps) == 0 {
		ps = []*Paragraph{{}}
	}
	f.Paragraphs = ps
	f.dirty = true
}

// SetText replaces the frame content with plain text. The first paragraph
// node is reused so its paragraph-level attributes survive; line breaks in
// the text become additional unstyled paragraphs.
func (f *TextFrame) SetText(text string) {
	lines := strings.Split(text, "\n")

	first := &Paragraph{}
	if len(f.Paragraphs) > 0 {
		first = f.Paragraphs[0]
	}
	first.Runs = []*Run{{Text: lines[0]}}

	ps := []*Paragraph{first}
	for _, line := range lines[1:] {
		ps = append(ps, &Paragraph{Runs: []*Run{{Text: line}}})
	}
	f.ReplaceParagraphs(ps)
}

// parseParagraphs unmarshals an <a:p> list fragment into the paragraph model.
// The fragment is wrapped in a synthetic root; OOXML namespace prefixes are
// left undeclared, which encoding/xml tolerates by matching local names.
func parseParagraphs(fragment []byte) ([]*Paragraph, error) {
	var doc bytes.Buffer
	doc.WriteString("<body>")
	doc.Write(fragment)
	doc.WriteString("</body>")

	var px paragraphsXML
	if err := xml.Unmarshal(doc.Bytes(), &px); err != nil {
		return nil, fmt.Errorf("parsing paragraphs: %w", err)
	}

	ps := make([]*Paragraph, 0, len(px.P))
	for _, p := range px.P {
		ps = append(ps, convertParagraph(&p))
	}
	return ps, nil
}

func convertParagraph(p *pXML) *Paragraph {
	out := &Paragraph{}
	if p.PPr != nil {
		out.Alignment = p.PPr.Algn
		out.Level = p.PPr.Lvl
		out.LineSpacing = convertSpacing(p.PPr.LnSpc)
		out.SpaceBefore = convertSpacing(p.PPr.SpcBef)
		out.SpaceAfter = convertSpacing(p.PPr.SpcAft)
	}
	for _, r := range p.R {
		out.Runs = append(out.Runs, convertRun(&r))
	}
	return out
}

func convertSpacing(s *spacingXML) *Spacing {
	if s == nil {
		return nil
	}
	if s.SpcPts != nil {
		return &Spacing{Val: s.SpcPts.Val, Points: true}
	}
	if s.SpcPct != nil {
		return &Spacing{Val: s.SpcPct.Val}
	}
	return nil
}

func convertRun(r *rXML) *Run {
	out := &Run{Text: r.T}
	if r.RPr == nil {
		return out
	}
	out.Size = r.RPr.Sz
	out.Bold = parseBoolAttr(r.RPr.B)
	out.Italic = parseBoolAttr(r.RPr.I)
	if r.RPr.U != "" {
		u := r.RPr.U
		out.Underline = &u
	}
	if r.RPr.Latin != nil && r.RPr.Latin.Typeface != "" {
		tf := r.RPr.Latin.Typeface
		out.Font = &tf
	}
	if r.RPr.Fill != nil {
		if r.RPr.Fill.Srgb != nil {
			c := r.RPr.Fill.Srgb.Val
			out.Color = &c
		} else if r.RPr.Fill.Scheme != nil {
			c := r.RPr.Fill.Scheme.Val
			out.SchemeColor = &c
		}
	}
	return out
}

// parseBoolAttr interprets the OOXML boolean attribute forms. An absent
// attribute yields nil.
func parseBoolAttr(s string) *bool {
	switch s {
	case "":
		return nil
	case "1", "true", "on":
		t := true
		return &t
	default:
		f := false
		return &f
	}
}
