package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Save writes the presentation to filename. Entries whose text frames were
// never modified are written through byte for byte; modified slide and notes
// parts get their paragraph regions re-serialized in place.
func (d *Document) Save(filename string) error {
	out, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, e := range d.entries {
		data := e.data
		if p, ok := d.parts[e.name]; ok && p.isDirty() {
			data = p.bytes()
		}
		w, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("writing %s: %w", e.name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

// bytes re-serializes the part, splicing rewritten paragraph lists into the
// original XML at their recorded byte regions.
func (p *part) bytes() []byte {
	frames := make([]*TextFrame, len(p.frames))
	copy(frames, p.frames)
	sort.Slice(frames, func(i, j int) bool { return frames[i].start < frames[j].start })

	var buf bytes.Buffer
	cursor := 0
	for _, f := range frames {
		buf.Write(p.raw[cursor:f.start])
		if f.dirty {
			writeParagraphs(&buf, f.Paragraphs)
		} else {
			buf.Write(p.raw[f.start:f.end])
		}
		cursor = f.end
	}
	buf.Write(p.raw[cursor:])
	return buf.Bytes()
}

func writeParagraphs(buf *bytes.Buffer, paragraphs []*Paragraph) {
	for _, para := range paragraphs {
		writeParagraph(buf, para)
	}
}

func writeParagraph(buf *bytes.Buffer, para *Paragraph) {
	buf.WriteString("<a:p>")
	if para.Level != nil || para.Alignment != "" ||
		para.LineSpacing != nil || para.SpaceBefore != nil || para.SpaceAfter != nil {
		buf.WriteString("<a:pPr")
		if para.Level != nil {
			writeAttr(buf, "lvl", strconv.Itoa(*para.Level))
		}
		if para.Alignment != "" {
			writeAttr(buf, "algn", para.Alignment)
		}
		if para.LineSpacing == nil && para.SpaceBefore == nil && para.SpaceAfter == nil {
			buf.WriteString("/>")
		} else {
			buf.WriteString(">")
			writeSpacing(buf, "lnSpc", para.LineSpacing)
			writeSpacing(buf, "spcBef", para.SpaceBefore)
			writeSpacing(buf, "spcAft", para.SpaceAfter)
			buf.WriteString("</a:pPr>")
		}
	}
	for _, run := range para.Runs {
		writeRun(buf, run)
	}
	buf.WriteString("</a:p>")
}

func writeSpacing(buf *bytes.Buffer, tag string, sp *Spacing) {
	if sp == nil {
		return
	}
	inner := "spcPct"
	if sp.Points {
		inner = "spcPts"
	}
	fmt.Fprintf(buf, "<a:%s><a:%s val=\"%d\"/></a:%s>", tag, inner, sp.Val, tag)
}

func writeRun(buf *bytes.Buffer, run *Run) {
	buf.WriteString("<a:r>")
	if runHasProperties(run) {
		buf.WriteString("<a:rPr")
		if run.Size != nil {
			writeAttr(buf, "sz", strconv.Itoa(*run.Size))
		}
		writeBoolAttr(buf, "b", run.Bold)
		writeBoolAttr(buf, "i", run.Italic)
		if run.Underline != nil {
			writeAttr(buf, "u", *run.Underline)
		}
		if run.Color == nil && run.SchemeColor == nil && run.Font == nil {
			buf.WriteString("/>")
		} else {
			buf.WriteString(">")
			if run.Color != nil {
				fmt.Fprintf(buf, "<a:solidFill><a:srgbClr val=%q/></a:solidFill>", *run.Color)
			} else if run.SchemeColor != nil {
				fmt.Fprintf(buf, "<a:solidFill><a:schemeClr val=%q/></a:solidFill>", *run.SchemeColor)
			}
			if run.Font != nil {
				fmt.Fprintf(buf, "<a:latin typeface=%q/>", *run.Font)
			}
			buf.WriteString("</a:rPr>")
		}
	}
	buf.WriteString("<a:t>")
	xml.EscapeText(buf, []byte(run.Text))
	buf.WriteString("</a:t></a:r>")
}

func runHasProperties(run *Run) bool {
	return run.Size != nil || run.Bold != nil || run.Italic != nil ||
		run.Underline != nil || run.Color != nil || run.SchemeColor != nil ||
		run.Font != nil
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteString(" ")
	buf.WriteString(name)
	buf.WriteString("=\"")
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteString("\"")
}

func writeBoolAttr(buf *bytes.Buffer, name string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		writeAttr(buf, name, "1")
	} else {
		writeAttr(buf, name, "0")
	}
}
