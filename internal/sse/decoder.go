// Package sse decodes the backend's chat stream: raw byte chunks in,
// classified events out. The transport is server-sent events over plain
// HTTP; each frame is a text block terminated by a blank line.
package sse

import "bytes"

// frameDelim separates frames on the wire.
var frameDelim = []byte("\n\n")

// Decoder reassembles complete frames from arbitrarily chunked bytes.
// A frame boundary landing mid-chunk is deferred to the next Feed call,
// so the emitted frame sequence is independent of how the transport
// splits the stream. Not safe for concurrent use; one decoder per stream.
type Decoder struct {
	pending []byte
}

// NewDecoder returns a decoder with an empty pending buffer.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the pending buffer and returns every complete
// frame it now contains, in order. The trailing partial frame (possibly
// empty) stays buffered. Buffering raw bytes keeps multi-byte UTF-8
// sequences intact across calls: the delimiter is ASCII and never occurs
// inside a continuation sequence, so a split code point always stays in
// the pending buffer until its remaining bytes arrive.
func (d *Decoder) Feed(chunk []byte) []string {
	d.pending = append(d.pending, chunk...)

	parts := bytes.Split(d.pending, frameDelim)
	if len(parts) == 1 {
		return nil
	}

	frames := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		frames = append(frames, string(p))
	}

	// Copy the remainder: parts alias the old buffer.
	d.pending = append([]byte(nil), parts[len(parts)-1]...)
	return frames
}

// Pending returns the number of buffered bytes that do not yet form a
// complete frame. At stream end a non-empty remainder cannot be a valid
// event and is simply discarded with the decoder.
func (d *Decoder) Pending() int {
	return len(d.pending)
}
