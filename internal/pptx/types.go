// Package pptx provides read and rewrite access to PPTX (Office Open XML
// Presentation) documents. The reader exposes slides, shapes, table cells and
// speaker notes as a tree of text frames; mutated frames are re-serialized
// into their source parts on save while every untouched byte of the container
// is written through unchanged.
package pptx

import "encoding/xml"

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// paragraphsXML is the synthetic root used to unmarshal the <a:p> list of a
// text body fragment.
type paragraphsXML struct {
	P []pXML `xml:"p"`
}

// pXML represents an a:p paragraph element.
type pXML struct {
	PPr *pPrXML `xml:"pPr"`
	R   []rXML  `xml:"r"`
}

// pPrXML carries the paragraph properties the rewrite preserves.
type pPrXML struct {
	Lvl    *int        `xml:"lvl,attr"`
	Algn   string      `xml:"algn,attr"`
	LnSpc  *spacingXML `xml:"lnSpc"`
	SpcBef *spacingXML `xml:"spcBef"`
	SpcAft *spacingXML `xml:"spcAft"`
}

// spacingXML holds either a percentage or a point spacing value.
type spacingXML struct {
	SpcPct *valXML `xml:"spcPct"`
	SpcPts *valXML `xml:"spcPts"`
}

type valXML struct {
	Val int `xml:"val,attr"`
}

// rXML represents an a:r text run.
type rXML struct {
	RPr *rPrXML `xml:"rPr"`
	T   string  `xml:"t"`
}

// rPrXML carries the run properties the rewrite preserves. Boolean attributes
// appear as "1"/"0" or "true"/"false" in the wild.
type rPrXML struct {
	Sz    *int          `xml:"sz,attr"` // hundredths of a point
	B     string        `xml:"b,attr"`
	I     string        `xml:"i,attr"`
	U     string        `xml:"u,attr"`
	Fill  *solidFillXML `xml:"solidFill"`
	Latin *latinXML     `xml:"latin"`
}

type solidFillXML struct {
	Srgb   *srgbClrXML   `xml:"srgbClr"`
	Scheme *schemeClrXML `xml:"schemeClr"`
}

type srgbClrXML struct {
	Val string `xml:"val,attr"`
}

type schemeClrXML struct {
	Val string `xml:"val,attr"`
}

type latinXML struct {
	Typeface string `xml:"typeface,attr"`
}
