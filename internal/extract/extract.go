// Package extract pulls translatable text out of a presentation into a
// structured record: one entry per slide plus a deduplicated pool of
// candidate strings.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"deck-translator/internal/pptx"
)

// latinLetter matches anywhere in the string; classification does not
// require a majority of Latin characters.
var latinLetter = regexp.MustCompile(`[A-Za-z]`)

// IsCandidate reports whether text is worth sending to translation: trimmed
// non-empty and containing at least one ASCII Latin letter.
func IsCandidate(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return latinLetter.MatchString(text)
}

// Cell is one non-empty table cell, addressed by 0-based row and column.
type Cell struct {
	R    int    `json:"r"`
	C    int    `json:"c"`
	Text string `json:"text"`
}

// Item is one text-bearing element of a slide body: either a text box or a
// table.
type Item struct {
	Type  string `json:"type"` // "text" or "table"
	Text  string `json:"text,omitempty"`
	Cells []Cell `json:"cells,omitempty"`
}

// SlideRecord is the extraction record of one slide.
type SlideRecord struct {
	SlideIndex int    `json:"slide_index"`
	Title      string `json:"title,omitempty"`
	Items      []Item `json:"items"`
	Notes      string `json:"notes,omitempty"`
}

// Record is the full extraction output: per-slide records plus the unique
// candidate strings in first-seen order.
type Record struct {
	Slides  []SlideRecord `json:"slides"`
	Strings []string      `json:"strings"`
}

// pool collects candidate strings, dropping duplicates while preserving
// first-occurrence order.
type pool struct {
	seen    map[string]bool
	strings []string
}

func newPool() *pool {
	return &pool{seen: make(map[string]bool)}
}

// add pools text if it classifies as a candidate and was not seen before.
func (p *pool) add(text string) {
	if !IsCandidate(text) {
		return
	}
	if p.seen[text] {
		return
	}
	p.seen[text] = true
	p.strings = append(p.strings, text)
}

// Extract walks every slide of the document and builds its extraction
// record. Title text is recorded whenever non-empty even if it does not
// classify; only classified text enters the strings pool.
func Extract(doc *pptx.Document) *Record {
	rec := &Record{Strings: []string{}}
	pool := newPool()

	for _, slide := range doc.Slides() {
		sr := SlideRecord{SlideIndex: slide.Index, Items: []Item{}}

		if title := slide.TitleFrame(); title != nil {
			text := strings.TrimSpace(title.Text())
			if text != "" {
				sr.Title = text
				pool.add(text)
			}
		}

		for _, shape := range slide.Shapes {
			if shape.ID == slide.TitleID {
				continue
			}
			if shape.HasFrame() {
				text := strings.TrimSpace(shape.Frame.Text())
				if text != "" {
					sr.Items = append(sr.Items, Item{Type: "text", Text: text})
					pool.add(text)
				}
			}
			if shape.HasTable() {
				if item, ok := tableItem(shape.Table, pool); ok {
					sr.Items = append(sr.Items, item)
				}
			}
		}

		if slide.Notes != nil {
			text := strings.TrimSpace(slide.Notes.Text())
			if text != "" {
				sr.Notes = text
				pool.add(text)
			}
		}

		rec.Slides = append(rec.Slides, sr)
	}

	if pool.strings != nil {
		rec.Strings = pool.strings
	}
	return rec
}

// tableItem collects the table's non-empty cells. A table with no non-empty
// cell produces no item.
func tableItem(table *pptx.Table, pool *pool) (Item, bool) {
	item := Item{Type: "table"}
	for r, row := range table.Rows {
		for c, cell := range row {
			text := strings.TrimSpace(cell.Text())
			if text == "" {
				continue
			}
			item.Cells = append(item.Cells, Cell{R: r, C: c, Text: text})
			pool.add(text)
		}
	}
	if len(item.Cells) == 0 {
		return Item{}, false
	}
	return item, true
}

// WriteJSON serializes the record to path as indented UTF-8 JSON with
// non-ASCII characters left unescaped.
func (r *Record) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return nil
}
