// Package snapshot renders a blob chain for display: as plain text, one
// blob per line, or as a structured JSON or YAML document describing every
// blob.
package snapshot

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/textblob/internal/blob"
)

// Entry describes one blob.
type Entry struct {
	Position  int    `yaml:"position"`
	Text      string `yaml:"text"`
	Bytes     int    `yaml:"bytes"`
	Graphemes int    `yaml:"graphemes"`
	Width     int    `yaml:"width"`
}

// Snapshot is a detached copy of a chain's contents.
type Snapshot struct {
	Chain   string  `yaml:"chain"`
	Blobs   int     `yaml:"blobs"`
	Bytes   int     `yaml:"bytes"`
	Entries []Entry `yaml:"entries"`
}

// Take copies the contents of c from head to tail.
func Take(c *blob.Chain) Snapshot {
	snap := Snapshot{
		Chain:   c.ID(),
		Blobs:   c.Len(),
		Bytes:   c.Size(),
		Entries: make([]Entry, 0, c.Len()),
	}
	for _, text := range c.All() {
		snap.Entries = append(snap.Entries, Entry{
			Position:  len(snap.Entries),
			Text:      text,
			Bytes:     len(text),
			Graphemes: uniseg.GraphemeClusterCount(text),
			Width:     uniseg.StringWidth(text),
		})
	}
	return snap
}

// Texts returns the text of each entry.
func (s Snapshot) Texts() []string {
	texts := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		texts[i] = e.Text
	}
	return texts
}
