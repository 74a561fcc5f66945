package rewrite

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"deck-translator/internal/pptx"
	"deck-translator/internal/pptx/pptxtest"
)

func upper(text string) (string, error) {
	return strings.ToUpper(text), nil
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func styledFrame() *pptx.TextFrame {
	return &pptx.TextFrame{
		Paragraphs: []*pptx.Paragraph{
			{
				Alignment:   "ctr",
				Level:       intPtr(1),
				LineSpacing: &pptx.Spacing{Val: 150000},
				Runs: []*pptx.Run{
					{Text: "first run", Bold: boolPtr(true), Size: intPtr(2400), Color: strPtr("FF0000")},
					{Text: "second run", Italic: boolPtr(true), Font: strPtr("Arial")},
				},
			},
			{
				SpaceBefore: &pptx.Spacing{Val: 600, Points: true},
				Runs: []*pptx.Run{
					{Text: "third run", Underline: strPtr("sng"), SchemeColor: strPtr("accent1")},
				},
			},
		},
	}
}

func TestTextFrameShapePreservation(t *testing.T) {
	frame := styledFrame()
	report := &Report{}
	TextFrame(frame, upper, report)

	if len(frame.Paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(frame.Paragraphs))
	}

	p0 := frame.Paragraphs[0]
	if len(p0.Runs) != 2 {
		t.Fatalf("paragraph 0 has %d runs, want 2", len(p0.Runs))
	}
	if p0.Alignment != "ctr" {
		t.Errorf("alignment = %q", p0.Alignment)
	}
	if p0.Level == nil || *p0.Level != 1 {
		t.Errorf("level = %v", p0.Level)
	}
	if p0.LineSpacing == nil || p0.LineSpacing.Val != 150000 {
		t.Errorf("line spacing = %+v", p0.LineSpacing)
	}

	r0 := p0.Runs[0]
	if r0.Text != "FIRST RUN" {
		t.Errorf("run 0 text = %q", r0.Text)
	}
	if r0.Bold == nil || !*r0.Bold {
		t.Errorf("run 0 bold = %v", r0.Bold)
	}
	if r0.Size == nil || *r0.Size != 2400 {
		t.Errorf("run 0 size = %v", r0.Size)
	}
	if r0.Color == nil || *r0.Color != "FF0000" {
		t.Errorf("run 0 color = %v", r0.Color)
	}
	if r0.Italic != nil || r0.Font != nil || r0.Underline != nil || r0.SchemeColor != nil {
		t.Errorf("run 0 gained attributes: %+v", r0)
	}

	r1 := p0.Runs[1]
	if r1.Text != "SECOND RUN" {
		t.Errorf("run 1 text = %q", r1.Text)
	}
	if r1.Italic == nil || !*r1.Italic {
		t.Errorf("run 1 italic = %v", r1.Italic)
	}
	if r1.Font == nil || *r1.Font != "Arial" {
		t.Errorf("run 1 font = %v", r1.Font)
	}

	p1 := frame.Paragraphs[1]
	if len(p1.Runs) != 1 {
		t.Fatalf("paragraph 1 has %d runs, want 1", len(p1.Runs))
	}
	if p1.SpaceBefore == nil || p1.SpaceBefore.Val != 600 || !p1.SpaceBefore.Points {
		t.Errorf("space before = %+v", p1.SpaceBefore)
	}
	r2 := p1.Runs[0]
	if r2.Text != "THIRD RUN" {
		t.Errorf("run 2 text = %q", r2.Text)
	}
	if r2.Underline == nil || *r2.Underline != "sng" {
		t.Errorf("run 2 underline = %v", r2.Underline)
	}
	if r2.SchemeColor == nil || *r2.SchemeColor != "accent1" {
		t.Errorf("run 2 scheme color = %v", r2.SchemeColor)
	}

	if report.Translated != 3 {
		t.Errorf("translated = %d, want 3", report.Translated)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("warnings = %v", report.Warnings)
	}
}

func TestTextFrameReusesFirstParagraphNode(t *testing.T) {
	frame := styledFrame()
	first := frame.Paragraphs[0]
	TextFrame(frame, upper, &Report{})
	if frame.Paragraphs[0] != first {
		t.Error("first paragraph node was replaced instead of reused")
	}
}

func TestTextFrameSkipsEmptyFrame(t *testing.T) {
	frame := &pptx.TextFrame{
		Paragraphs: []*pptx.Paragraph{
			{Runs: []*pptx.Run{{Text: "   "}}},
		},
	}
	calls := 0
	TextFrame(frame, func(s string) (string, error) {
		calls++
		return s, nil
	}, &Report{})

	if calls != 0 {
		t.Errorf("translate called %d times for an empty frame", calls)
	}
	if got := frame.Text(); got != "   " {
		t.Errorf("frame mutated: %q", got)
	}
}

func TestTextFrameFailureContainment(t *testing.T) {
	frame := styledFrame()
	failOn := "second run"
	boom := errors.New("backend unavailable")
	report := &Report{}

	TextFrame(frame, func(s string) (string, error) {
		if s == failOn {
			return "", boom
		}
		return strings.ToUpper(s), nil
	}, report)

	if got := frame.Paragraphs[0].Runs[0].Text; got != "FIRST RUN" {
		t.Errorf("run 0 = %q, want translated", got)
	}
	if got := frame.Paragraphs[0].Runs[1].Text; got != "second run" {
		t.Errorf("failed run = %q, want original text kept", got)
	}
	if got := frame.Paragraphs[1].Runs[0].Text; got != "THIRD RUN" {
		t.Errorf("run 2 = %q, want translated", got)
	}

	if len(report.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", report.Warnings)
	}
	w := report.Warnings[0]
	if w.Text != failOn {
		t.Errorf("warning text = %q", w.Text)
	}
	if !errors.Is(w.Err, boom) {
		t.Errorf("warning error = %v", w.Err)
	}
	if report.Translated != 2 {
		t.Errorf("translated = %d, want 2", report.Translated)
	}
}

func TestDocumentRewrite(t *testing.T) {
	path := pptxtest.WriteFile(t, "deck.pptx",
		pptxtest.Slide{
			Shapes: []pptxtest.Shape{
				{ID: 2, Placeholder: "title", Paragraphs: []string{"Welcome"}},
				{ID: 3, Paragraphs: []string{"Thank you for reading"}},
				{ID: 4, Table: [][]string{{"Cell one", ""}, {"", "Cell two"}}},
			},
			Notes: "See appendix",
		})

	doc, err := pptx.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	report := Document(doc, upper)
	if len(report.Warnings) != 0 {
		t.Fatalf("warnings = %v", report.Warnings)
	}

	out := filepath.Join(t.TempDir(), "out.pptx")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, err := pptx.Open(out)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}

	slide := saved.Slides()[0]
	if got := slide.TitleFrame().Text(); got != "WELCOME" {
		t.Errorf("title = %q", got)
	}
	var body, table *pptx.Shape
	for _, sh := range slide.Shapes {
		switch {
		case sh.HasTable():
			table = sh
		case sh.ID != slide.TitleID:
			body = sh
		}
	}
	if got := body.Frame.Text(); got != "THANK YOU FOR READING" {
		t.Errorf("body = %q", got)
	}
	if got := table.Table.Rows[0][0].Text(); got != "CELL ONE" {
		t.Errorf("cell (0,0) = %q", got)
	}
	if got := table.Table.Rows[1][1].Text(); got != "CELL TWO" {
		t.Errorf("cell (1,1) = %q", got)
	}
	if got := slide.Notes.Text(); got != "SEE APPENDIX" {
		t.Errorf("notes = %q", got)
	}
}

func TestDocumentRewriteOrder(t *testing.T) {
	path := pptxtest.WriteFile(t, "deck.pptx",
		pptxtest.Slide{
			Shapes: []pptxtest.Shape{
				{ID: 2, Placeholder: "title", Paragraphs: []string{"Title text"}},
				{ID: 3, Paragraphs: []string{"Body text"}},
			},
			Notes: "Notes text",
		})
	doc, err := pptx.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var seen []string
	Document(doc, func(s string) (string, error) {
		seen = append(seen, s)
		return s, nil
	})

	want := []string{"Title text", "Body text", "Notes text"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestDocumentSkipsEmptyElements(t *testing.T) {
	path := pptxtest.WriteFile(t, "deck.pptx",
		pptxtest.Slide{
			Shapes: []pptxtest.Shape{
				{ID: 2, Paragraphs: []string{""}},
				{ID: 3, Table: [][]string{{"", ""}}},
			},
		})
	doc, err := pptx.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	report := Document(doc, func(s string) (string, error) {
		return "", fmt.Errorf("should not be called for %q", s)
	})
	if report.Translated != 0 || len(report.Warnings) != 0 {
		t.Errorf("report = %+v, want untouched", report)
	}
}
