package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// zipEntry preserves one container entry exactly as read.
type zipEntry struct {
	name string
	data []byte
}

// part is a slide or notes XML part whose text bodies may be rewritten.
type part struct {
	name   string
	raw    []byte
	frames []*TextFrame // ordered by region start
}

func (p *part) isDirty() bool {
	for _, f := range p.frames {
		if f.dirty {
			return true
		}
	}
	return false
}

// newFrame registers a text frame over a byte region of the part.
func (p *part) newFrame(region bodyRegion) (*TextFrame, error) {
	ps, err := parseParagraphs(p.raw[region.pStart:region.pEnd])
	if err != nil {
		return nil, err
	}
	f := &TextFrame{
		part:       p,
		start:      region.pStart,
		end:        region.pEnd,
		Paragraphs: ps,
	}
	p.frames = append(p.frames, f)
	return f, nil
}

// Shape is one top-level shape on a slide. A shape carries a text frame, a
// table, or neither; ID is the slide-local cNvPr id, the stable handle used
// for title identity.
type Shape struct {
	ID          int
	Placeholder string // ph type: title, ctrTitle, body, ... ("" if none)
	Frame       *TextFrame
	Table       *Table
}

// HasFrame reports whether the shape carries a directly attached text frame.
func (s *Shape) HasFrame() bool { return s.Frame != nil }

// HasTable reports whether the shape carries a table.
func (s *Shape) HasTable() bool { return s.Table != nil }

// Table is a grid of cell text frames addressed by 0-based row and column.
type Table struct {
	Rows [][]*TextFrame
}

// Slide is one presentation slide: its shape list in document order, the
// identity of the title placeholder if present, and the speaker-notes frame
// if the slide has a notes part.
type Slide struct {
	Index   int // 1-based position in the presentation
	TitleID int // cNvPr id of the title placeholder shape, 0 if none
	Shapes  []*Shape
	Notes   *TextFrame
}

// TitleFrame returns the title placeholder's text frame, or nil.
func (s *Slide) TitleFrame() *TextFrame {
	if s.TitleID == 0 {
		return nil
	}
	for _, sh := range s.Shapes {
		if sh.ID == s.TitleID {
			return sh.Frame
		}
	}
	return nil
}

// Document is an opened presentation: every container entry held in memory,
// plus the parsed slide model over the slide and notes parts.
type Document struct {
	entries []zipEntry
	parts   map[string]*part
	slides  []*Slide
}

// Slides returns the slides in document order.
func (d *Document) Slides() []*Slide { return d.slides }

// SlideCount returns the number of slides.
func (d *Document) SlideCount() int { return len(d.slides) }

// Open reads a PPTX file and parses its slide model. The whole container is
// held in memory so Save can write untouched entries through byte for byte.
func Open(filename string) (*Document, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	doc := &Document{parts: make(map[string]*part)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		doc.entries = append(doc.entries, zipEntry{name: f.Name, data: data})
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	if err := doc.parseSlides(); err != nil {
		return nil, err
	}
	return doc, nil
}

// validate checks that required PPTX files exist.
func (d *Document) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}
	for _, name := range required {
		if d.entry(name) == nil {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	hasSlide := false
	for _, e := range d.entries {
		if isSlidePart(e.name) {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return fmt.Errorf("no slides found in presentation")
	}
	return nil
}

func (d *Document) entry(name string) []byte {
	for _, e := range d.entries {
		if e.name == name {
			return e.data
		}
	}
	return nil
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") &&
		strings.HasSuffix(name, ".xml") &&
		!strings.Contains(name, "_rels")
}

// extractSlideNumber extracts the slide number from a path like
// "ppt/slides/slide1.xml".
func extractSlideNumber(p string) int {
	name := strings.TrimPrefix(p, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlides builds the slide model for every slide part, in slide order.
func (d *Document) parseSlides() error {
	var slidePaths []string
	for _, e := range d.entries {
		if isSlidePart(e.name) {
			slidePaths = append(slidePaths, e.name)
		}
	}
	sort.Slice(slidePaths, func(i, j int) bool {
		return extractSlideNumber(slidePaths[i]) < extractSlideNumber(slidePaths[j])
	})

	for i, slidePath := range slidePaths {
		slide, err := d.parseSlide(slidePath, i+1)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", slidePath, err)
		}
		// Notes are optional; any failure resolving or parsing them leaves
		// the slide without notes rather than failing the open.
		d.parseSlideNotes(slidePath, slide)
		d.slides = append(d.slides, slide)
	}

	if len(d.slides) == 0 {
		return fmt.Errorf("no slides could be parsed")
	}
	return nil
}

// parseSlide scans one slide part into its shape model.
func (d *Document) parseSlide(slidePath string, index int) (*Slide, error) {
	p := &part{name: slidePath, raw: d.entry(slidePath)}
	d.parts[slidePath] = p

	scans, err := scanPart(p.raw)
	if err != nil {
		return nil, err
	}

	slide := &Slide{Index: index}
	for _, sc := range scans {
		shape := &Shape{ID: sc.id, Placeholder: sc.ph}

		if sc.table {
			if len(sc.cells) == 0 {
				continue
			}
			shape.Table, err = p.buildTable(sc.cells)
			if err != nil {
				return nil, err
			}
		} else {
			if sc.body == nil {
				continue
			}
			shape.Frame, err = p.newFrame(*sc.body)
			if err != nil {
				return nil, err
			}
			if slide.TitleID == 0 && isTitlePlaceholder(sc.ph) {
				slide.TitleID = sc.id
			}
		}
		slide.Shapes = append(slide.Shapes, shape)
	}

	return slide, nil
}

func isTitlePlaceholder(phType string) bool {
	return phType == "title" || phType == "ctrTitle"
}

// buildTable arranges cell frames into the row/column grid.
func (p *part) buildTable(cells []cellScan) (*Table, error) {
	rows := 0
	for _, c := range cells {
		if c.row+1 > rows {
			rows = c.row + 1
		}
	}
	t := &Table{Rows: make([][]*TextFrame, rows)}
	for _, c := range cells {
		f, err := p.newFrame(c.body)
		if err != nil {
			return nil, err
		}
		t.Rows[c.row] = append(t.Rows[c.row], f)
	}
	return t, nil
}

// parseSlideNotes resolves the slide's notes part through its relationships
// and attaches the notes body frame. Absent or unparsable notes are ignored.
func (d *Document) parseSlideNotes(slidePath string, slide *Slide) {
	relsPath := path.Join(path.Dir(slidePath), "_rels", path.Base(slidePath)+".rels")
	data := d.entry(relsPath)
	if data == nil {
		return
	}

	rels := &relationshipsXML{}
	if err := unmarshalXML(data, rels); err != nil {
		return
	}

	var notesPath string
	for _, rel := range rels.Relationship {
		if strings.Contains(rel.Type, "notesSlide") {
			notesPath = rel.Target
			break
		}
	}
	if notesPath == "" {
		return
	}

	// Normalize relative targets
	if strings.HasPrefix(notesPath, "../") {
		notesPath = "ppt/" + strings.TrimPrefix(notesPath, "../")
	} else if !strings.HasPrefix(notesPath, "ppt/") {
		notesPath = "ppt/slides/" + notesPath
	}

	raw := d.entry(notesPath)
	if raw == nil {
		return
	}

	p := &part{name: notesPath, raw: raw}
	scans, err := scanPart(raw)
	if err != nil {
		return
	}

	// The notes text lives in the body placeholder; the slide-image and
	// slide-number placeholders are not notes text.
	for _, sc := range scans {
		if sc.table || sc.body == nil {
			continue
		}
		if sc.ph == "body" {
			f, err := p.newFrame(*sc.body)
			if err != nil {
				return
			}
			d.parts[notesPath] = p
			slide.Notes = f
			return
		}
	}
}

// unmarshalXML decodes a whole XML part, tolerating declared encodings other
// than UTF-8.
func unmarshalXML(data []byte, v interface{}) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}
