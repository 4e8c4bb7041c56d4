package document

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultIndent is the per-level indent of pretty output.
const DefaultIndent = "  "

// WriteOptions controls the JSON surface form.
type WriteOptions struct {
	Pretty bool
	// Indent overrides DefaultIndent when Pretty is set.
	Indent string
}

// Write encodes v as JSON. Pretty output ends with a newline, compact
// output carries no whitespace at all.
func Write(w io.Writer, v Value, opts WriteOptions) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	e := jsonEncoder{w: bw, pretty: opts.Pretty, indent: opts.Indent}
	if e.indent == "" {
		e.indent = DefaultIndent
	}
	e.value(v, 0)
	if opts.Pretty {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// MarshalJSON is Write into a fresh buffer.
func MarshalJSON(v Value, pretty bool) []byte {
	var buf bytes.Buffer
	// bytes.Buffer never fails
	_ = Write(&buf, v, WriteOptions{Pretty: pretty})
	return buf.Bytes()
}

type jsonEncoder struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	scratch [64]byte
}

func (e *jsonEncoder) newline(depth int) {
	if !e.pretty {
		return
	}
	e.w.WriteByte('\n')
	for range depth {
		e.w.WriteString(e.indent)
	}
}

// encFrame is an open array or object; next is the index of the element
// to write next.
type encFrame struct {
	v     Value
	next  int
	depth int
}

// value writes v without recursion, so nesting depth is bounded by memory
// only.
func (e *jsonEncoder) value(v Value, depth int) {
	var stack []encFrame
	e.open(v, depth, &stack)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == top.v.Len() {
			e.newline(top.depth)
			if top.v.kind == KindArray {
				e.w.WriteByte(']')
			} else {
				e.w.WriteByte('}')
			}
			stack = stack[:len(stack)-1]
			continue
		}
		if top.next > 0 {
			e.w.WriteByte(',')
		}
		e.newline(top.depth + 1)
		var child Value
		if top.v.kind == KindArray {
			child = top.v.arr[top.next]
		} else {
			m := top.v.members[top.next]
			writeString(e.w, m.Key)
			e.w.WriteByte(':')
			if e.pretty {
				e.w.WriteByte(' ')
			}
			child = m.Value
		}
		top.next++
		e.open(child, top.depth+1, &stack)
	}
}

// open writes a scalar or an empty container in full; a non-empty
// container gets its opening bracket and a frame.
func (e *jsonEncoder) open(v Value, depth int, stack *[]encFrame) {
	switch v.kind {
	case KindNull:
		e.w.WriteString("null")
	case KindBool:
		if v.b {
			e.w.WriteString("true")
		} else {
			e.w.WriteString("false")
		}
	case KindInt:
		e.w.Write(strconv.AppendInt(e.scratch[:0], v.i, 10))
	case KindUint:
		e.w.Write(strconv.AppendUint(e.scratch[:0], v.u, 10))
	case KindFloat:
		e.float(v.f)
	case KindString:
		writeString(e.w, v.s)
	case KindArray, KindObject:
		if v.Len() == 0 {
			if v.kind == KindArray {
				e.w.WriteString("[]")
			} else {
				e.w.WriteString("{}")
			}
			return
		}
		if v.kind == KindArray {
			e.w.WriteByte('[')
		} else {
			e.w.WriteByte('{')
		}
		*stack = append(*stack, encFrame{v: v, depth: depth})
	}
}

// float keeps a fraction or exponent so the value reads back as a float.
// Non-finite values have no JSON form and become null.
func (e *jsonEncoder) float(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.w.WriteString("null")
		return
	}
	b := strconv.AppendFloat(e.scratch[:0], f, 'g', -1, 64)
	e.w.Write(b)
	if !bytes.ContainsAny(b, ".eE") {
		e.w.WriteString(".0")
	}
}

const hexDigits = "0123456789abcdef"

// writeString quotes s. Control characters and U+2028/U+2029 are escaped,
// other non-ASCII passes through, invalid UTF-8 becomes \ufffd.
func writeString(w *bufio.Writer, s string) {
	w.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			w.WriteString(s[start:i])
			switch c {
			case '"', '\\':
				w.WriteByte('\\')
				w.WriteByte(c)
			case '\b':
				w.WriteString(`\b`)
			case '\f':
				w.WriteString(`\f`)
			case '\n':
				w.WriteString(`\n`)
			case '\r':
				w.WriteString(`\r`)
			case '\t':
				w.WriteString(`\t`)
			default:
				w.WriteString(`\u00`)
				w.WriteByte(hexDigits[c>>4])
				w.WriteByte(hexDigits[c&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			w.WriteString(s[start:i])
			w.WriteString(`\ufffd`)
			i += size
			start = i
			continue
		}
		if r == '\u2028' || r == '\u2029' {
			w.WriteString(s[start:i])
			w.WriteString(`\u202`)
			w.WriteByte(hexDigits[r&0xF])
			i += size
			start = i
			continue
		}
		i += size
	}
	w.WriteString(s[start:])
	w.WriteByte('"')
}

// Quote returns s as a JSON string literal using the writer's policy.
func Quote(s string) string {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	writeString(bw, s)
	_ = bw.Flush()
	return sb.String()
}
