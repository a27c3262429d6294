// Package input turns the raw terminal byte stream into an ordered queue of
// key, click and swipe events, drained once per frame.
package input

import (
	"bufio"
	"io"
	"strconv"
	"time"
	"unicode/utf8"
)

// DefaultHold is how long an arrow key counts as held after its last repeat.
const DefaultHold = 150 * time.Millisecond

// Key identifies a pressed key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // printable character, see Event.Rune
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyCtrlC
)

// EventKind distinguishes the event variants.
type EventKind int

const (
	EventKey EventKind = iota
	EventClick
	EventSwipe
)

// Direction of a swipe.
type Direction int

const (
	SwipeLeft Direction = iota + 1
	SwipeRight
	SwipeUp
	SwipeDown
)

// Event is one input occurrence. Col and Row are 1-based terminal cells.
type Event struct {
	Kind      EventKind
	Key       Key
	Rune      rune
	Col, Row  int
	Direction Direction
}

// Input is everything that arrived since the previous poll.
type Input struct {
	Events []Event
	Left   bool // left held
	Right  bool // right held
	Closed bool // the byte source ended
}

// Stream delivers input bytes via a channel and parses them on Poll.
type Stream struct {
	ch     chan byte
	parser *Parser
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.Reader, hold time.Duration) *Stream {
	s := &Stream{
		ch:     make(chan byte, 256),
		parser: NewParser(hold),
	}
	br := bufio.NewReader(r)
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Poll drains all available bytes (non-blocking) and parses them.
func (s *Stream) Poll(now time.Time) Input {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	in := s.parser.Feed(buf, now)
	in.Closed = s.closed
	return in
}

// Parser decodes keys, arrow sequences and SGR mouse reports. Incomplete
// escape sequences are kept until the next Feed.
type Parser struct {
	hold      time.Duration
	pending   []byte
	lastLeft  time.Time
	lastRight time.Time

	dragging bool
	swiped   bool
	startCol int
	startRow int
}

// NewParser creates a parser. hold <= 0 uses DefaultHold.
func NewParser(hold time.Duration) *Parser {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Parser{hold: hold}
}

// swipeCols and swipeRows are the drag distances that make a swipe.
const (
	swipeCols = 4
	swipeRows = 2
)

// Feed parses buf, preceded by any bytes left over from the last call.
func (p *Parser) Feed(buf []byte, now time.Time) Input {
	data := append(p.pending, buf...)
	p.pending = nil

	var in Input
	for i := 0; i < len(data); {
		n, ev, ok := p.next(data[i:])
		if n == 0 {
			p.pending = append([]byte(nil), data[i:]...)
			break
		}
		i += n
		if !ok {
			continue
		}
		switch {
		case ev.Kind == EventKey && (ev.Key == KeyLeft || ev.Key == KeyRune && (ev.Rune == 'a' || ev.Rune == 'A')):
			p.lastLeft = now
		case ev.Kind == EventKey && (ev.Key == KeyRight || ev.Key == KeyRune && (ev.Rune == 'd' || ev.Rune == 'D')):
			p.lastRight = now
		}
		in.Events = append(in.Events, ev)
	}

	in.Left = !p.lastLeft.IsZero() && now.Sub(p.lastLeft) < p.hold
	in.Right = !p.lastRight.IsZero() && now.Sub(p.lastRight) < p.hold
	return in
}

// next decodes one token from data. n == 0 means data is an incomplete sequence.
// ok is false for tokens that produce no event.
func (p *Parser) next(data []byte) (n int, ev Event, ok bool) {
	b := data[0]
	switch {
	case b == 0x1b:
		if len(data) == 1 {
			return 1, keyEvent(KeyEscape), true
		}
		switch data[1] {
		case '[':
			return p.csi(data)
		case 'O':
			if len(data) < 3 {
				return 0, Event{}, false
			}
			if k := arrow(data[2]); k != KeyNone {
				return 3, keyEvent(k), true
			}
			return 3, Event{}, false
		}
		return 1, keyEvent(KeyEscape), true
	case b == 0x03:
		return 1, keyEvent(KeyCtrlC), true
	case b == '\r' || b == '\n':
		return 1, keyEvent(KeyEnter), true
	case b == 0x7f || b == 0x08:
		return 1, keyEvent(KeyBackspace), true
	case b == ' ':
		return 1, Event{Kind: EventKey, Key: KeySpace, Rune: ' '}, true
	case b < 0x20:
		return 1, Event{}, false
	}

	if !utf8.FullRune(data) {
		return 0, Event{}, false
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError {
		return size, Event{}, false
	}
	return size, Event{Kind: EventKey, Key: KeyRune, Rune: r}, true
}

// csi decodes "ESC [ params final".
func (p *Parser) csi(data []byte) (int, Event, bool) {
	end := -1
	for i := 2; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7e {
			end = i
			break
		}
	}
	if end < 0 {
		return 0, Event{}, false
	}
	n := end + 1
	final := data[end]
	params := data[2:end]

	if len(params) > 0 && params[0] == '<' && (final == 'M' || final == 'm') {
		ev, ok := p.mouse(params[1:], final == 'M')
		return n, ev, ok
	}
	if len(params) == 0 {
		if k := arrow(final); k != KeyNone {
			return n, keyEvent(k), true
		}
	}
	return n, Event{}, false
}

// mouse handles an SGR report "b;col;row". Left button press starts a
// gesture; dragging far enough emits one swipe; a release without a swipe is a click.
func (p *Parser) mouse(params []byte, press bool) (Event, bool) {
	fields := splitParams(params)
	if len(fields) != 3 {
		return Event{}, false
	}
	button, col, row := fields[0], fields[1], fields[2]
	motion := button&32 != 0
	if button&^(32|4|8|16) != 0 {
		return Event{}, false // not the left button (wheel, right, middle)
	}

	switch {
	case press && !motion:
		p.dragging, p.swiped = true, false
		p.startCol, p.startRow = col, row
		return Event{}, false
	case press && motion:
		if !p.dragging || p.swiped {
			return Event{}, false
		}
		if dir := swipeDirection(col-p.startCol, row-p.startRow); dir != 0 {
			p.swiped = true
			return Event{Kind: EventSwipe, Direction: dir, Col: col, Row: row}, true
		}
		return Event{}, false
	default:
		wasDragging, swiped := p.dragging, p.swiped
		p.dragging, p.swiped = false, false
		if !wasDragging {
			return Event{Kind: EventClick, Col: col, Row: row}, true
		}
		if swiped {
			return Event{}, false
		}
		if dir := swipeDirection(col-p.startCol, row-p.startRow); dir != 0 {
			return Event{Kind: EventSwipe, Direction: dir, Col: col, Row: row}, true
		}
		return Event{Kind: EventClick, Col: p.startCol, Row: p.startRow}, true
	}
}

func swipeDirection(dc, dr int) Direction {
	absC, absR := abs(dc), abs(dr)
	// rows are twice as tall as columns are wide
	if absC >= swipeCols && absC >= absR*2 {
		if dc < 0 {
			return SwipeLeft
		}
		return SwipeRight
	}
	if absR >= swipeRows {
		if dr < 0 {
			return SwipeUp
		}
		return SwipeDown
	}
	return 0
}

func splitParams(b []byte) []int {
	var out []int
	start := 0
	for i := 0; i <= len(b); i++ {
		if i == len(b) || b[i] == ';' {
			v, err := strconv.Atoi(string(b[start:i]))
			if err != nil {
				return nil
			}
			out = append(out, v)
			start = i + 1
		}
	}
	return out
}

func arrow(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyNone
}

func keyEvent(k Key) Event {
	return Event{Kind: EventKey, Key: k}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
