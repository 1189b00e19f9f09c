// Package corpus resolves text corpora and turns them into filtered character sequences.
package corpus

import "sort"

// Kind identifies the shape of a corpus value.
type Kind int

const (
	KindUnsupported Kind = iota
	KindString
	KindTranslation
)

// Value is a single corpus value: a plain string, a translation record or
// something that cannot be analysed.
type Value struct {
	Kind Kind
	Text string
}

// FromString wraps a plain string value.
func FromString(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// FromTranslation wraps the translation field of a translation record.
func FromTranslation(s string) Value {
	return Value{Kind: KindTranslation, Text: s}
}

// Unsupported marks a value that is neither a string nor a translation record.
func Unsupported() Value {
	return Value{Kind: KindUnsupported}
}

// Entry is a keyed corpus value.
type Entry struct {
	Key   string
	Value Value
}

// Corpus is an ordered list of entries. Order is the key order of the source.
type Corpus []Entry

// FromMap builds a corpus of plain strings with keys in sorted order.
func FromMap(values map[string]string) Corpus {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Corpus, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: FromString(values[k])})
	}
	return out
}

// Item is a resolved corpus entry.
type Item struct {
	Key  string
	Text string
}

// Resolved is a corpus reduced to plain strings.
type Resolved []Item

// Resolve drops unsupported entries and keeps the text of the rest in order.
func Resolve(c Corpus) Resolved {
	out := make(Resolved, 0, len(c))
	for _, e := range c {
		switch e.Value.Kind {
		case KindString, KindTranslation:
			out = append(out, Item{Key: e.Key, Text: e.Value.Text})
		}
	}
	return out
}

// Texts returns the resolved strings in order.
func (r Resolved) Texts() []string {
	out := make([]string, len(r))
	for i, item := range r {
		out[i] = item.Text
	}
	return out
}
