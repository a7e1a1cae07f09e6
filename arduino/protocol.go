package arduino

import (
	"strconv"
	"strings"
)

// maxLine bounds a partial line; anything longer is line noise.
const maxLine = 64

// Reading is one parsed protocol line.
type Reading struct {
	Tag   byte
	Value int
}

// ParseLine parses "<tag><int>" with tag one of x, y, z, b. Surrounding
// whitespace is ignored. Button values are clamped to 0..1.
func ParseLine(line string) (Reading, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 2 {
		return Reading{}, false
	}
	tag := line[0]
	switch tag {
	case 'x', 'y', 'z', 'b':
	default:
		return Reading{}, false
	}
	v, err := strconv.Atoi(line[1:])
	if err != nil {
		return Reading{}, false
	}
	if tag == 'z' || tag == 'b' {
		v = min(max(v, 0), 1)
	}
	return Reading{Tag: tag, Value: v}, true
}

// Raw is the latest value of every channel.
type Raw struct {
	X int
	Y int
	Z int
	B int
}

// Apply stores r in its channel.
func (raw *Raw) Apply(r Reading) {
	switch r.Tag {
	case 'x':
		raw.X = r.Value
	case 'y':
		raw.Y = r.Value
	case 'z':
		raw.Z = r.Value
	case 'b':
		raw.B = r.Value
	}
}

// lineBuffer splits a byte stream into lines, holding a trailing partial
// line until its newline arrives.
type lineBuffer struct {
	buf []byte
}

func (lb *lineBuffer) Feed(p []byte) []string {
	var lines []string
	for _, c := range p {
		if c == '\n' {
			lines = append(lines, string(lb.buf))
			lb.buf = lb.buf[:0]
			continue
		}
		if len(lb.buf) >= maxLine {
			lb.buf = lb.buf[:0]
		}
		lb.buf = append(lb.buf, c)
	}
	return lines
}
