// Package rewrite replaces presentation text with translations while
// preserving paragraph and run formatting.
package rewrite

import (
	"strings"

	"deck-translator/internal/logger"
	"deck-translator/internal/pptx"
)

// TranslateFunc translates one string. Failures are contained by the
// rewrite: the original text stays in place and a warning is recorded.
type TranslateFunc func(text string) (string, error)

// Warning records one string whose translation failed.
type Warning struct {
	Text string
	Err  error
}

// Report summarizes a document rewrite.
type Report struct {
	Translated int
	Warnings   []Warning
}

// translate applies fn with failure containment.
func (r *Report) translate(fn TranslateFunc, text string) string {
	out, err := fn(text)
	if err != nil {
		logger.Warn("translation failed, keeping original text",
			logger.String("text", text),
			logger.Err(err))
		r.Warnings = append(r.Warnings, Warning{Text: text, Err: err})
		return text
	}
	r.Translated++
	return out
}

// TextFrame rewrites one text frame in place. Paragraph and run structure is
// rebuilt from a pre-mutation snapshot: the frame keeps the same paragraph
// count, each paragraph the same run count, and every formatting attribute
// that was set before is set to the same value after. Only run text changes.
func TextFrame(frame *pptx.TextFrame, fn TranslateFunc, report *Report) {
	if strings.TrimSpace(frame.Text()) == "" {
		return
	}

	snapshot := snapshotParagraphs(frame.Paragraphs)

	// The frame always keeps at least one paragraph node, so the first is
	// reused rather than replaced. Its leftover runs are dropped before
	// reconstruction.
	first := frame.Paragraphs[0]
	first.Runs = nil

	rebuilt := make([]*pptx.Paragraph, 0, len(snapshot))
	for i, snap := range snapshot {
		para := &pptx.Paragraph{}
		if i == 0 {
			para = first
		}
		restoreParagraph(para, snap)
		for _, run := range snap.Runs {
			para.Runs = append(para.Runs, &pptx.Run{
				Text:        report.translate(fn, run.Text),
				Font:        run.Font,
				Size:        run.Size,
				Bold:        run.Bold,
				Italic:      run.Italic,
				Underline:   run.Underline,
				Color:       run.Color,
				SchemeColor: run.SchemeColor,
			})
		}
		rebuilt = append(rebuilt, para)
	}

	frame.ReplaceParagraphs(rebuilt)
}

// restoreParagraph assigns only the attributes the snapshot carries; unset
// attributes keep the paragraph's defaults.
func restoreParagraph(para *pptx.Paragraph, snap *pptx.Paragraph) {
	if snap.Alignment != "" {
		para.Alignment = snap.Alignment
	}
	if snap.Level != nil {
		para.Level = snap.Level
	}
	if snap.LineSpacing != nil {
		para.LineSpacing = snap.LineSpacing
	}
	if snap.SpaceBefore != nil {
		para.SpaceBefore = snap.SpaceBefore
	}
	if snap.SpaceAfter != nil {
		para.SpaceAfter = snap.SpaceAfter
	}
}

// snapshotParagraphs deep-copies the frame content before mutation.
func snapshotParagraphs(ps []*pptx.Paragraph) []*pptx.Paragraph {
	out := make([]*pptx.Paragraph, len(ps))
	for i, p := range ps {
		cp := &pptx.Paragraph{
			Alignment:   p.Alignment,
			Level:       copyInt(p.Level),
			LineSpacing: copySpacing(p.LineSpacing),
			SpaceBefore: copySpacing(p.SpaceBefore),
			SpaceAfter:  copySpacing(p.SpaceAfter),
		}
		for _, r := range p.Runs {
			cp.Runs = append(cp.Runs, &pptx.Run{
				Text:        r.Text,
				Font:        copyString(r.Font),
				Size:        copyInt(r.Size),
				Bold:        copyBool(r.Bold),
				Italic:      copyBool(r.Italic),
				Underline:   copyString(r.Underline),
				Color:       copyString(r.Color),
				SchemeColor: copyString(r.SchemeColor),
			})
		}
		out[i] = cp
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copySpacing(v *pptx.Spacing) *pptx.Spacing {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Document rewrites every text-bearing element of the document in place:
// slide titles, body text frames, table cells, and speaker notes. The
// returned report carries the translation count and any contained failures.
func Document(doc *pptx.Document, fn TranslateFunc) *Report {
	report := &Report{}

	for _, slide := range doc.Slides() {
		if title := slide.TitleFrame(); title != nil {
			TextFrame(title, fn, report)
		}

		for _, shape := range slide.Shapes {
			if shape.ID == slide.TitleID {
				continue
			}
			if shape.HasFrame() {
				TextFrame(shape.Frame, fn, report)
			}
			if shape.HasTable() {
				for _, row := range shape.Table.Rows {
					for _, cell := range row {
						TextFrame(cell, fn, report)
					}
				}
			}
		}

		// Notes keep no per-run formatting; a plain text replacement is
		// enough there.
		if slide.Notes != nil {
			text := slide.Notes.Text()
			if strings.TrimSpace(text) != "" {
				slide.Notes.SetText(report.translate(fn, text))
			}
		}
	}

	return report
}
