// Package codec defines the canonical stored form for transcript content.
//
// Content is stored as a JSON string literal so that embedded newlines,
// quotes, and the formatter's separator survive the round trip through the
// database text column byte-for-byte. Decode tolerates rows that were never
// encoded (checkpoint payloads, legacy plain text): anything that does not
// parse as a JSON string degrades to the raw stored value.
package codec

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Form tags a decode result with how the stored value was interpreted.
type Form int

const (
	// FormCanonical means the stored value parsed as the codec's canonical
	// JSON string form and Text is the exact original content.
	FormCanonical Form = iota

	// FormRaw means the stored value was not canonical; Text is the stored
	// value with at most surrounding double quotes trimmed.
	FormRaw
)

// Result is a tagged decode outcome. Decoding never fails; callers that care
// whether a fallback occurred inspect Form.
type Result struct {
	Text string
	Form Form
}

// Encode returns the canonical stored form of text.
//
// HTML escaping is disabled so the stored bytes are the plain JSON escape of
// the input; Decode(Encode(x)).Text == x for every x, including the empty
// string.
func Encode(text string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(text); err != nil {
		// Encoding a plain string cannot fail; if it somehow does, store the
		// raw text rather than lose the turn.
		return text
	}
	// Encoder appends a trailing newline, remove it.
	return strings.TrimSuffix(buf.String(), "\n")
}

// Decode inverts Encode. Stored values that are not canonical (checkpoint
// payloads are written as given, and older rows may predate the codec) fall
// back to the raw value with surrounding quote characters stripped.
func Decode(stored string) Result {
	var text string
	if err := json.Unmarshal([]byte(stored), &text); err == nil {
		return Result{Text: text, Form: FormCanonical}
	}
	return Result{Text: strings.Trim(stored, `"`), Form: FormRaw}
}
