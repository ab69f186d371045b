// Package scoring derives per-dimension priority scores from the answer
// ledger and ranks dimensions for the joint discussion. Lower combined score
// means lower perceived health, which means higher discussion priority.
package scoring

import (
	"cmp"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kingrea/flourish/internal/catalog"
	"github.com/kingrea/flourish/internal/ledger"
)

// FocusCount is how many top-priority dimensions the resolution highlights.
const FocusCount = 2

// Score averages one partner's numeric answers for a dimension. Slots are
// scanned up to the dimension's own guiding count plus the closing slot.
// Returns 0 when nothing numeric was recorded.
func Score(l *ledger.Ledger, p ledger.Partner, dim catalog.Dimension) float64 {
	var sum float64
	var count int
	add := func(slot ledger.Slot) {
		v, ok := l.Get(p, ledger.Key{DimensionID: dim.ID, Slot: slot})
		if !ok {
			return
		}
		if n, ok := v.Numeric(); ok {
			sum += n
			count++
		}
	}
	for i := range dim.Guiding {
		add(ledger.Guiding(i))
	}
	add(ledger.Closing())
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Combined sums both partners' scores for a dimension.
func Combined(l *ledger.Ledger, dim catalog.Dimension) float64 {
	return Score(l, ledger.PartnerOne, dim) + Score(l, ledger.PartnerTwo, dim)
}

// Rank orders every catalog dimension by ascending combined score. Ties keep
// canonical catalog order.
func Rank(c *catalog.Catalog, l *ledger.Ledger) []catalog.Dimension {
	dims := c.Dimensions()
	scores := make(map[string]float64, len(dims))
	for _, dim := range dims {
		scores[dim.ID] = Combined(l, dim)
	}
	slices.SortStableFunc(dims, func(a, b catalog.Dimension) int {
		return cmp.Compare(scores[a.ID], scores[b.ID])
	})
	return dims
}

// RankIDs is Rank reduced to dimension identifiers.
func RankIDs(c *catalog.Catalog, l *ledger.Ledger) []string {
	ranked := Rank(c, l)
	ids := make([]string, len(ranked))
	for i, dim := range ranked {
		ids[i] = dim.ID
	}
	return ids
}

// TopFocus returns the first n entries of a ranking.
func TopFocus(ranked []catalog.Dimension, n int) []catalog.Dimension {
	if n <= 0 {
		return nil
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return slices.Clone(ranked[:n])
}

// Row is one line of the score table.
type Row struct {
	ID       string
	Title    string
	Partner1 float64
	Partner2 float64
	Combined float64
	Rank     int
	Focus    bool
}

// Table returns score rows in ranked order.
func Table(c *catalog.Catalog, l *ledger.Ledger) []Row {
	ranked := Rank(c, l)
	rows := make([]Row, len(ranked))
	for i, dim := range ranked {
		rows[i] = Row{
			ID:       dim.ID,
			Title:    dim.Title,
			Partner1: Score(l, ledger.PartnerOne, dim),
			Partner2: Score(l, ledger.PartnerTwo, dim),
			Combined: Combined(l, dim),
			Rank:     i + 1,
			Focus:    i < FocusCount,
		}
	}
	return rows
}

// Formatter renders scores with the number conventions of one language.
type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) Formatter {
	return Formatter{p: message.NewPrinter(tag)}
}

var english = NewFormatter(language.English)

func (f Formatter) printer() *message.Printer {
	if f.p == nil {
		return english.p
	}
	return f.p
}

// Score rounds for display only; ranking always uses raw values.
func (f Formatter) Score(v float64) string {
	return f.printer().Sprintf("%.1f", v)
}

// Cells renders a row for tabular output.
func (f Formatter) Cells(r Row) []string {
	return []string{
		f.printer().Sprintf("%d", r.Rank),
		r.ID,
		r.Title,
		f.Score(r.Partner1),
		f.Score(r.Partner2),
		f.Score(r.Combined),
	}
}

// FormatScore is Formatter.Score in English.
func FormatScore(v float64) string {
	return english.Score(v)
}

// Cells renders a row in English.
func (r Row) Cells() []string {
	return english.Cells(r)
}
