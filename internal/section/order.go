// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"cmp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/section-engine/pkg/types"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Order returns the survivors in display order. With a sort spec the nodes
// are stable-sorted by each pair in turn; otherwise pages keep the fetch
// order and files take their manual order (sort number, then filename).
// Flip reverses the result. The input slice is not modified.
func Order(nodes []*types.Node, cfg types.SectionConfig) []*types.Node {
	sorted := make([]*types.Node, len(nodes))
	copy(sorted, nodes)

	switch {
	case len(cfg.SortBy) > 0:
		coll := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(sorted, func(i, j int) bool {
			for _, pair := range cfg.SortBy {
				c := compareValues(coll, sorted[i].Value(pair.Field), sorted[j].Value(pair.Field))
				if c == 0 {
					continue
				}
				if pair.Desc() {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	case cfg.Kind == types.SectionFiles:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Num != sorted[j].Num {
				return sorted[i].Num < sorted[j].Num
			}
			return sorted[i].Filename < sorted[j].Filename
		})
	}

	if cfg.Flip {
		slices.Reverse(sorted)
	}
	return sorted
}

// Value classes in sort order.
const (
	classNumber = iota
	classDate
	classText
)

// sortValue is a field value tagged with its class.
type sortValue struct {
	class int
	num   float64
	date  time.Time
	text  string
}

func classify(s string) sortValue {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return sortValue{class: classNumber, num: f}
	}
	if t, ok := parseDate(s); ok {
		return sortValue{class: classDate, date: t}
	}
	return sortValue{class: classText, text: s}
}

// compareValues orders numbers before dates before text. Numbers compare
// numerically, dates chronologically and text by collation, so the order
// is total even when a field mixes kinds of values.
func compareValues(coll *collate.Collator, a, b string) int {
	va, vb := classify(a), classify(b)
	if va.class != vb.class {
		return cmp.Compare(va.class, vb.class)
	}
	switch va.class {
	case classNumber:
		return cmp.Compare(va.num, vb.num)
	case classDate:
		return va.date.Compare(vb.date)
	}
	return coll.CompareString(va.text, vb.text)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
