// Package document defines the self-contained document representation
// handed to printing/rendering consumers. A Document carries everything the
// regulatory record needs; renderers (print view, PDF) only lay it out and
// never reach back into the stores.
package document

import "time"

// Document is one printable compliance artifact.
type Document struct {
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	Sections    []Section        `json:"sections"`
	Signatures  []SignatureBlock `json:"signatures,omitempty"`
}

// Section is one titled block: label/value rows, an ordered step list, a
// table, or freeform text. Unused shapes stay empty.
type Section struct {
	Heading string   `json:"heading"`
	Rows    []Row    `json:"rows,omitempty"`
	Steps   []string `json:"steps,omitempty"`
	Table   *Table   `json:"table,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Row is one label/value line.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a column-labeled grid.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SignatureBlock is one signature line. Image is the opaque captured blob;
// an empty image with a non-empty name is a typed (unsigned) line.
type SignatureBlock struct {
	Role     string     `json:"role"`
	Name     string     `json:"name"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
	Image    []byte     `json:"image,omitempty"`
}

// YesNo renders a checklist flag the way the paper form shows it.
func YesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}
