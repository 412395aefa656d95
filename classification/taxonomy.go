package classification

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

const displayNameColumn = "display_name"

// Taxonomy maps class indices to display names. Row order is class order.
type Taxonomy struct {
	labels []string
}

// NewTaxonomy builds a taxonomy from labels in class order.
func NewTaxonomy(labels ...string) *Taxonomy {
	return &Taxonomy{labels: slices.Clone(labels)}
}

// LoadTaxonomy reads a class-map CSV such as yamnet_class_map.csv.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class map: %w", err)
	}
	defer f.Close()

	t, err := ParseTaxonomy(f)
	if err != nil {
		return nil, fmt.Errorf("parse class map %s: %w", path, err)
	}
	return t, nil
}

// ParseTaxonomy reads a CSV with a header row containing a display_name
// column. Other columns (index, mid) are ignored.
func ParseTaxonomy(r io.Reader) (*Taxonomy, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("class map is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == displayNameColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("class map has no %q column", displayNameColumn)
	}

	var labels []string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(labels)+1, err)
		}
		labels = append(labels, row[col])
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("class map has no classes")
	}
	return &Taxonomy{labels: labels}, nil
}

// Len returns the number of classes.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.labels)
}

// Label returns the display name for class index i.
func (t *Taxonomy) Label(i int) (string, bool) {
	if t == nil || i < 0 || i >= len(t.labels) {
		return "", false
	}
	return t.labels[i], true
}
