package snapshot

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrNoMatch is returned when a query path matches nothing.
var ErrNoMatch = errors.New("query matched nothing")

// EncodeJSON renders s as an indented JSON document. JSON strings hold only
// valid UTF-8, so an entry whose text was split inside a character also
// carries its exact bytes base64-encoded under "raw".
func EncodeJSON(s Snapshot) ([]byte, error) {
	doc := "{}"
	var err error

	set := func(path string, value any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, value)
		}
	}
	set("chain", s.Chain)
	set("blobs", s.Blobs)
	set("bytes", s.Bytes)
	if err == nil {
		doc, err = sjson.SetRaw(doc, "entries", "[]")
	}

	for _, e := range s.Entries {
		entry := "{}"
		for _, field := range []struct {
			key   string
			value any
		}{
			{"position", e.Position},
			{"text", e.Text},
			{"bytes", e.Bytes},
			{"graphemes", e.Graphemes},
			{"width", e.Width},
		} {
			if err == nil {
				entry, err = sjson.Set(entry, field.key, field.value)
			}
		}
		if err == nil && !utf8.ValidString(e.Text) {
			entry, err = sjson.Set(entry, "raw", base64.StdEncoding.EncodeToString([]byte(e.Text)))
		}
		if err == nil {
			doc, err = sjson.SetRaw(doc, "entries.-1", entry)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}

	return pretty.Pretty([]byte(doc)), nil
}

// Query evaluates a gjson path such as "entries.#.text" or "blobs" against
// a JSON document and returns the matched value. Strings are returned
// unquoted; arrays and objects as raw JSON.
func Query(doc []byte, path string) (string, error) {
	if !gjson.ValidBytes(doc) {
		return "", errors.New("query: document is not valid json")
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, path)
	}
	return res.String(), nil
}
