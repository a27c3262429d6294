package input

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func keys(in Input) []Key {
	var out []Key
	for _, ev := range in.Events {
		if ev.Kind == EventKey {
			out = append(out, ev.Key)
		}
	}
	return out
}

func TestFeedKeysInOrder(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte("\x1b[D\x1b[C \r\x7f\x03x\x1bOA"), t0)
	assert.Equal(t, []Key{KeyLeft, KeyRight, KeySpace, KeyEnter, KeyBackspace, KeyCtrlC, KeyRune, KeyUp}, keys(in))
	assert.Equal(t, 'x', in.Events[6].Rune)
}

func TestFeedUTF8Rune(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte("é"), t0)
	require.Len(t, in.Events, 1)
	assert.Equal(t, 'é', in.Events[0].Rune)
}

func TestFeedLoneEscape(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte{0x1b}, t0)
	assert.Equal(t, []Key{KeyEscape}, keys(in))
}

func TestFeedSplitSequence(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte("\x1b["), t0)
	assert.Empty(t, in.Events)

	in = p.Feed([]byte("Cq"), t0)
	assert.Equal(t, []Key{KeyRight, KeyRune}, keys(in))
}

func TestHeldKeys(t *testing.T) {
	p := NewParser(100 * time.Millisecond)
	in := p.Feed([]byte("\x1b[D"), t0)
	assert.True(t, in.Left)
	assert.False(t, in.Right)

	in = p.Feed(nil, t0.Add(50*time.Millisecond))
	assert.True(t, in.Left, "still within the hold window")

	in = p.Feed([]byte("d"), t0.Add(150*time.Millisecond))
	assert.False(t, in.Left)
	assert.True(t, in.Right)
}

func TestMouseClick(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte("\x1b[<0;12;5M\x1b[<0;12;5m"), t0)
	require.Len(t, in.Events, 1)
	assert.Equal(t, Event{Kind: EventClick, Col: 12, Row: 5}, in.Events[0])
}

func TestMouseSwipeOncePerGesture(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte("\x1b[<0;20;10M\x1b[<32;18;10M\x1b[<32;15;10M\x1b[<32;10;10M\x1b[<0;10;10m"), t0)
	require.Len(t, in.Events, 1)
	assert.Equal(t, EventSwipe, in.Events[0].Kind)
	assert.Equal(t, SwipeLeft, in.Events[0].Direction)
}

func TestMouseSwipeDownOnRelease(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte("\x1b[<0;20;10M\x1b[<0;21;13m"), t0)
	require.Len(t, in.Events, 1)
	assert.Equal(t, SwipeDown, in.Events[0].Direction)
}

func TestMouseIgnoresOtherButtons(t *testing.T) {
	p := NewParser(0)
	in := p.Feed([]byte("\x1b[<64;1;1M\x1b[<2;3;3M\x1b[<2;3;3m"), t0)
	assert.Empty(t, in.Events)
}

func TestStreamPollUntilClosed(t *testing.T) {
	r, w := io.Pipe()
	s := StartStream(r, 0)

	go func() {
		w.Write([]byte("\x1b[C"))
		w.Close()
	}()

	var got []Key
	require.Eventually(t, func() bool {
		in := s.Poll(time.Now())
		got = append(got, keys(in)...)
		return in.Closed
	}, time.Second, time.Millisecond)
	assert.Equal(t, []Key{KeyRight}, got)
}
