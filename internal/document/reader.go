package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseJSON decodes a JSON text into a Value. Object member order is
// taken from the input. Numbers without fraction or exponent become
// KindInt (KindUint above int64), the rest KindFloat.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("document: trailing data after JSON value")
	}
	return v, nil
}

// buildFrame collects the elements of an array or object being read.
// left counts elements still expected when the length is known upfront.
type buildFrame struct {
	obj     bool
	left    int
	key     string
	items   []Value
	members []Member
}

func (f *buildFrame) add(v Value) {
	if f.obj {
		f.members = append(f.members, Member{Key: f.key, Value: v})
	} else {
		f.items = append(f.items, v)
	}
}

func (f *buildFrame) value() Value {
	if f.obj {
		return Object(f.members...)
	}
	return Array(f.items...)
}

// parseValue reads one value on an explicit stack; json.Decoder.Token
// already rejects mismatched delimiters.
func parseValue(dec *json.Decoder) (Value, error) {
	var stack []*buildFrame
	for {
		if n := len(stack); n > 0 {
			top := stack[n-1]
			if !dec.More() {
				if _, err := dec.Token(); err != nil {
					return Value{}, fmt.Errorf("document: %w", err)
				}
				stack = stack[:n-1]
				v := top.value()
				if len(stack) == 0 {
					return v, nil
				}
				stack[len(stack)-1].add(v)
				continue
			}
			if top.obj {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, fmt.Errorf("document: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("document: object key is %T", keyTok)
				}
				top.key = key
			}
		}

		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("document: %w", err)
		}
		var v Value
		switch t := tok.(type) {
		case nil:
			v = Null()
		case bool:
			v = Bool(t)
		case string:
			v = String(t)
		case json.Number:
			if v, err = parseNumber(string(t)); err != nil {
				return Value{}, err
			}
		case json.Delim:
			switch t {
			case '[':
				stack = append(stack, &buildFrame{items: []Value{}})
				continue
			case '{':
				stack = append(stack, &buildFrame{obj: true, members: []Member{}})
				continue
			}
			return Value{}, fmt.Errorf("document: unexpected token %v", tok)
		default:
			return Value{}, fmt.Errorf("document: unexpected token %v", tok)
		}
		if len(stack) == 0 {
			return v, nil
		}
		stack[len(stack)-1].add(v)
	}
}

func parseNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(n), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return Uint(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("document: bad number %q: %w", s, err)
	}
	return Float(f), nil
}
