package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// bodyRegion locates one text body inside a part: the byte span of the whole
// txBody element and the span covering its <a:p> list. Splicing replaces only
// the paragraph list so bodyPr and lstStyle survive untouched.
type bodyRegion struct {
	pStart, pEnd int
}

// shapeScan is the structural record of one top-level shape produced by
// scanPart: its stable id, placeholder type, and the text body regions it
// owns (directly, or one per table cell).
type shapeScan struct {
	id    int
	ph    string
	table bool
	body  *bodyRegion
	cells []cellScan
}

type cellScan struct {
	row, col int
	body     bodyRegion
}

// scanPart walks a slide or notes part once and records every top-level
// shape and graphic-frame table together with the byte regions of their text
// bodies. Shapes nested in groups are skipped: the document model (and the
// rewrite) only addresses the top-level shape list.
func scanPart(raw []byte) ([]*shapeScan, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		shapes      []*shapeScan
		stack       []string
		spTreeDepth = -1
		cur         *shapeScan
		curDepth    int
		row, col    int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scanning part: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, name)

			switch name {
			case "spTree":
				spTreeDepth = len(stack)
			case "sp", "graphicFrame":
				if spTreeDepth > 0 && len(stack) == spTreeDepth+1 {
					cur = &shapeScan{table: name == "graphicFrame"}
					curDepth = len(stack)
					shapes = append(shapes, cur)
				}
			case "cNvPr":
				if cur != nil && cur.id == 0 {
					cur.id = intAttr(el, "id")
				}
			case "ph":
				if cur != nil && cur.ph == "" {
					cur.ph = strAttr(el, "type")
				}
			case "tbl":
				row, col = -1, -1
			case "tr":
				if cur != nil && cur.table {
					row++
					col = -1
				}
			case "tc":
				if cur != nil && cur.table {
					col++
				}
			case "txBody":
				if cur == nil {
					continue
				}
				region, err := captureBody(dec)
				if err != nil {
					return nil, err
				}
				// captureBody consumed the matching end element
				stack = stack[:len(stack)-1]
				if cur.table {
					if parent == "tc" && row >= 0 && col >= 0 {
						cur.cells = append(cur.cells, cellScan{row: row, col: col, body: region})
					}
				} else if parent == "sp" {
					cur.body = &region
				}
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if cur != nil && len(stack) < curDepth {
				cur = nil
			}
			if el.Name.Local == "spTree" {
				spTreeDepth = -1
			}
		}
	}

	return shapes, nil
}

// captureBody consumes tokens through the end of the current txBody element,
// recording the byte span of its immediate <a:p> children.
func captureBody(dec *xml.Decoder) (bodyRegion, error) {
	depth := 1
	var region bodyRegion
	seenP := false

	for depth > 0 {
		off := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return region, fmt.Errorf("scanning text body: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if depth == 1 && el.Name.Local == "p" && !seenP {
				region.pStart = off
				seenP = true
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 1 && el.Name.Local == "p" {
				region.pEnd = int(dec.InputOffset())
			}
			if depth == 0 && !seenP {
				// A body with no paragraphs: splice point just before the
				// closing tag.
				region.pStart = off
				region.pEnd = off
			}
		}
	}

	return region, nil
}

func strAttr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(el xml.StartElement, name string) int {
	v, _ := strconv.Atoi(strAttr(el, name))
	return v
}
