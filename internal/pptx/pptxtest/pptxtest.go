// Package pptxtest builds minimal PPTX files in memory for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Shape describes one top-level shape on a fixture slide. Exactly one of
// Paragraphs, ParagraphXML, or Table should be set.
type Shape struct {
	ID          int
	Placeholder string   // ph type attribute; "" omits the ph element
	Paragraphs  []string // one plain <a:p> per entry
	// ParagraphXML is a raw <a:p> list for formatting-rich fixtures.
	ParagraphXML string
	Table        [][]string // cell text by row and column
}

// Slide describes one fixture slide.
type Slide struct {
	Shapes []Shape
	Notes  string // speaker notes text; "" omits the notes part
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// Build assembles a PPTX container with the given slides and returns its
// bytes.
func Build(t testing.TB, slides ...Slide) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	write("[Content_Types].xml", contentTypes(slides))
	write("ppt/presentation.xml", presentationXML(len(slides)))

	for i, slide := range slides {
		n := i + 1
		write(fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(slide))
		if slide.Notes != "" {
			write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRels(n))
			write(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), notesXML(slide.Notes))
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

// WriteFile builds the fixture and writes it into the test's temp directory,
// returning its path.
func WriteFile(t testing.TB, name string, slides ...Slide) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, Build(t, slides...), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func contentTypes(slides []Slide) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i, slide := range slides {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
		if slide.Notes != "" {
			fmt.Fprintf(&sb, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i+1)
		}
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func presentationXML(slideCount int) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:presentation ` + nsDecl + `><p:sldIdLst>`)
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+1)
	}
	sb.WriteString(`</p:sldIdLst></p:presentation>`)
	return sb.String()
}

func slideRels(n int) string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		fmt.Sprintf(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, n) +
		`</Relationships>`
}

func slideXML(slide Slide) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld ` + nsDecl + `><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	for _, shape := range slide.Shapes {
		if shape.Table != nil {
			writeTable(&sb, shape)
		} else {
			writeShape(&sb, shape, paragraphList(shape))
		}
	}
	sb.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return sb.String()
}

func notesXML(text string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:notes ` + nsDecl + `><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	writeShape(&sb, Shape{ID: 2, Placeholder: "sldImg"}, "")
	body := Shape{ID: 3, Placeholder: "body", Paragraphs: strings.Split(text, "\n")}
	writeShape(&sb, body, paragraphList(body))
	sb.WriteString(`</p:spTree></p:cSld></p:notes>`)
	return sb.String()
}

func paragraphList(shape Shape) string {
	if shape.ParagraphXML != "" {
		return shape.ParagraphXML
	}
	var sb strings.Builder
	for _, text := range shape.Paragraphs {
		fmt.Fprintf(&sb, `<a:p><a:r><a:t>%s</a:t></a:r></a:p>`, escape(text))
	}
	return sb.String()
}

func writeShape(sb *strings.Builder, shape Shape, paragraphs string) {
	ph := ""
	if shape.Placeholder != "" {
		ph = fmt.Sprintf(`<p:ph type="%s"/>`, shape.Placeholder)
	}
	fmt.Fprintf(sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr/>`,
		shape.ID, shape.ID, ph)
	fmt.Fprintf(sb, `<p:txBody><a:bodyPr/><a:lstStyle/>%s</p:txBody></p:sp>`, paragraphs)
}

func writeTable(sb *strings.Builder, shape Shape) {
	fmt.Fprintf(sb, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`,
		shape.ID, shape.ID)
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr/><a:tblGrid/>`)
	for _, row := range shape.Table {
		sb.WriteString(`<a:tr>`)
		for _, cell := range row {
			sb.WriteString(`<a:tc><a:txBody><a:bodyPr/>`)
			if cell != "" {
				fmt.Fprintf(sb, `<a:p><a:r><a:t>%s</a:t></a:r></a:p>`, escape(cell))
			} else {
				sb.WriteString(`<a:p/>`)
			}
			sb.WriteString(`</a:txBody><a:tcPr/></a:tc>`)
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
