// Package ledger stores each partner's answers keyed by (dimension, slot).
// Writes are upserts: recording a slot twice keeps only the latest value.
package ledger

import (
	"fmt"
	"sort"
	"strconv"
)

// Partner identifies one of the two participants.
type Partner int

const (
	PartnerOne Partner = 1
	PartnerTwo Partner = 2
)

// Valid reports whether p names one of the two partners.
func (p Partner) Valid() bool {
	return p == PartnerOne || p == PartnerTwo
}

func (p Partner) String() string {
	return "partner " + strconv.Itoa(int(p))
}

// SlotKind tags what a slot addresses within a dimension.
type SlotKind string

const (
	SlotGuiding SlotKind = "guiding"
	SlotClosing SlotKind = "closing"
)

// Slot is an addressable answer location within a dimension.
type Slot struct {
	Kind  SlotKind
	Index int
}

// Guiding returns the slot for a zero-based guiding question index.
func Guiding(index int) Slot {
	return Slot{Kind: SlotGuiding, Index: index}
}

// Closing returns the closing-question slot.
func Closing() Slot {
	return Slot{Kind: SlotClosing}
}

func (s Slot) String() string {
	if s.Kind == SlotClosing {
		return "closing"
	}
	return strconv.Itoa(s.Index)
}

// less orders guiding slots by index and puts closing last.
func (s Slot) less(other Slot) bool {
	if s.Kind != other.Kind {
		return s.Kind == SlotGuiding
	}
	return s.Index < other.Index
}

// Key addresses one answer in a partner's ledger.
type Key struct {
	DimensionID string
	Slot        Slot
}

// ValueKind tags the type of a recorded answer.
type ValueKind string

const (
	KindOrdinal ValueKind = "ordinal"
	KindText    ValueKind = "text"
	KindChoice  ValueKind = "choice"
	KindSkipped ValueKind = "skipped"
)

// Value is a recorded answer.
type Value struct {
	Kind    ValueKind
	Ordinal int
	Text    string
}

// Ordinal builds a range answer (1..3).
func Ordinal(n int) Value {
	return Value{Kind: KindOrdinal, Ordinal: n}
}

// Text builds a free-text closing answer.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Choice builds a selected-option closing answer.
func Choice(label string) Value {
	return Value{Kind: KindChoice, Text: label}
}

// Skipped builds the skip marker with the given label.
func Skipped(marker string) Value {
	return Value{Kind: KindSkipped, Text: marker}
}

// Numeric reports the value as a score when it is a valid ordinal.
func (v Value) Numeric() (float64, bool) {
	if v.Kind != KindOrdinal || v.Ordinal < 1 || v.Ordinal > 3 {
		return 0, false
	}
	return float64(v.Ordinal), true
}

// IsOrdinal reports whether v is a range answer in 1..3.
func (v Value) IsOrdinal() bool {
	_, ok := v.Numeric()
	return ok
}

func (v Value) String() string {
	if v.Kind == KindOrdinal {
		return strconv.Itoa(v.Ordinal)
	}
	return v.Text
}

// Entry is one recorded answer, flattened for export.
type Entry struct {
	Partner Partner
	Key     Key
	Value   Value
}

// Ledger holds two independent partner answer maps.
type Ledger struct {
	answers map[Partner]map[Key]Value
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{answers: map[Partner]map[Key]Value{
		PartnerOne: {},
		PartnerTwo: {},
	}}
}

// Record upserts an answer for the partner.
func (l *Ledger) Record(p Partner, key Key, v Value) error {
	if !p.Valid() {
		return fmt.Errorf("ledger: unknown partner %d", int(p))
	}
	if key.DimensionID == "" {
		return fmt.Errorf("ledger: dimension id is required")
	}
	l.partner(p)[key] = v
	return nil
}

// Get returns the answer stored at key.
func (l *Ledger) Get(p Partner, key Key) (Value, bool) {
	if l == nil {
		return Value{}, false
	}
	v, ok := l.answers[p][key]
	return v, ok
}

// Len returns how many answers the partner has recorded.
func (l *Ledger) Len(p Partner) int {
	if l == nil {
		return 0
	}
	return len(l.answers[p])
}

// Entries returns the partner's answers ordered by dimension id then slot.
func (l *Ledger) Entries(p Partner) []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, 0, len(l.answers[p]))
	for key, v := range l.answers[p] {
		out = append(out, Entry{Partner: p, Key: key, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.DimensionID != b.DimensionID {
			return a.DimensionID < b.DimensionID
		}
		return a.Slot.less(b.Slot)
	})
	return out
}

// Reset drops every answer for the partner.
func (l *Ledger) Reset(p Partner) {
	if l == nil || !p.Valid() {
		return
	}
	l.answers[p] = map[Key]Value{}
}

// Clone returns an independent copy.
func (l *Ledger) Clone() *Ledger {
	out := New()
	if l == nil {
		return out
	}
	for p, values := range l.answers {
		dst := out.partner(p)
		for k, v := range values {
			dst[k] = v
		}
	}
	return out
}

func (l *Ledger) partner(p Partner) map[Key]Value {
	if l.answers == nil {
		l.answers = map[Partner]map[Key]Value{}
	}
	m, ok := l.answers[p]
	if !ok {
		m = map[Key]Value{}
		l.answers[p] = m
	}
	return m
}
