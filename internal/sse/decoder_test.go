package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(d *Decoder, chunks ...string) []string {
	var frames []string
	for _, c := range chunks {
		frames = append(frames, d.Feed([]byte(c))...)
	}
	return frames
}

func TestFeedSingleChunk(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("data: {\"type\":\"done\"}\n\n"))
	require.Len(t, frames, 1)
	assert.Equal(t, "data: {\"type\":\"done\"}", frames[0])
	assert.Zero(t, d.Pending())
}

func TestFeedMultipleFramesInOneChunk(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("one\n\ntwo\n\nthree"))
	assert.Equal(t, []string{"one", "two"}, frames)
	assert.Equal(t, len("three"), d.Pending())

	frames = d.Feed([]byte("\n\n"))
	assert.Equal(t, []string{"three"}, frames)
}

func TestFrameSplitAcrossChunks(t *testing.T) {
	d := NewDecoder()
	frames := feedAll(d, "data: {\"ty", "pe\":\"do", "ne\"}\n", "\n")
	require.Len(t, frames, 1, "a frame split across N feeds yields exactly one frame")
	assert.Equal(t, "data: {\"type\":\"done\"}", frames[0])
}

func TestDelimiterSplitAcrossChunks(t *testing.T) {
	d := NewDecoder()
	frames := feedAll(d, "alpha\n", "\nbeta\n\n")
	assert.Equal(t, []string{"alpha", "beta"}, frames)
}

// The frame sequence must not depend on how the transport chunks bytes.
func TestChunkBoundaryIndependence(t *testing.T) {
	stream := "data: {\"type\":\"agent_start\",\"agent\":\"orchestrator\"}\n\n" +
		"data: {\"type\":\"stream_token\",\"message\":\"héllo \"}\n\n" +
		"data: {\"type\":\"done\"}\n\n"

	want := feedAll(NewDecoder(), stream)
	require.Len(t, want, 3)

	for size := 1; size <= len(stream); size++ {
		d := NewDecoder()
		var got []string
		for i := 0; i < len(stream); i += size {
			end := min(i+size, len(stream))
			got = append(got, d.Feed([]byte(stream[i:end]))...)
		}
		require.Equal(t, want, got, "chunk size %d", size)
		assert.Zero(t, d.Pending(), "chunk size %d", size)
	}
}

func TestMultiByteRuneSplitAcrossChunks(t *testing.T) {
	// "日" is three bytes; split it at every offset.
	frame := "data: 日本語\n\n"
	raw := []byte(frame)
	for cut := 1; cut < len(raw); cut++ {
		d := NewDecoder()
		frames := append(d.Feed(raw[:cut]), d.Feed(raw[cut:])...)
		require.Len(t, frames, 1, "cut at byte %d", cut)
		assert.Equal(t, "data: 日本語", frames[0], "cut at byte %d", cut)
	}
}

func TestTrailingPartialStaysPending(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("data: incomplete"))
	assert.Empty(t, frames)
	assert.Equal(t, len("data: incomplete"), d.Pending())

	// Feeding more without a delimiter still emits nothing.
	frames = d.Feed([]byte(" tail"))
	assert.Empty(t, frames)
}

func TestEmptyFrames(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("\n\n\n\n"))
	assert.Equal(t, []string{"", ""}, frames)
}

func TestFeedEmptyChunk(t *testing.T) {
	d := NewDecoder()
	assert.Empty(t, d.Feed(nil))
	assert.Empty(t, d.Feed([]byte{}))
}
