package document

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// WriteMsgpack encodes v as MessagePack. Objects become maps whose keys
// are written in member order.
func WriteMsgpack(w io.Writer, v Value) error {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	if err := encodeMsgpack(enc, v); err != nil {
		return fmt.Errorf("msgpack encode: %w", err)
	}
	return bw.Flush()
}

func encodeMsgpack(enc *msgpack.Encoder, v Value) error {
	var stack []encFrame
	if err := openMsgpack(enc, v, &stack); err != nil {
		return err
	}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == top.v.Len() {
			stack = stack[:len(stack)-1]
			continue
		}
		var child Value
		if top.v.kind == KindArray {
			child = top.v.arr[top.next]
		} else {
			m := top.v.members[top.next]
			if err := enc.EncodeString(m.Key); err != nil {
				return err
			}
			child = m.Value
		}
		top.next++
		if err := openMsgpack(enc, child, &stack); err != nil {
			return err
		}
	}
	return nil
}

// openMsgpack encodes a scalar, or a container header plus a frame for
// its elements.
func openMsgpack(enc *msgpack.Encoder, v Value, stack *[]encFrame) error {
	switch v.kind {
	case KindNull:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindUint:
		return enc.EncodeUint(v.u)
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return enc.EncodeNil()
		}
		return enc.EncodeFloat64(v.f)
	case KindString:
		return enc.EncodeString(v.s)
	case KindArray:
		if err := enc.EncodeArrayLen(len(v.arr)); err != nil {
			return err
		}
	case KindObject:
		if err := enc.EncodeMapLen(len(v.members)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}
	if v.Len() > 0 {
		*stack = append(*stack, encFrame{v: v})
	}
	return nil
}

// ReadMsgpack decodes one MessagePack value, keeping map key order.
// Integers that fit int64 come back as KindInt.
func ReadMsgpack(r io.Reader) (Value, error) {
	dec := msgpack.NewDecoder(r)
	v, err := decodeMsgpack(dec)
	if err != nil {
		return Value{}, fmt.Errorf("msgpack decode: %w", err)
	}
	return v, nil
}

func decodeMsgpack(dec *msgpack.Decoder) (Value, error) {
	var stack []*buildFrame
	for {
		if n := len(stack); n > 0 {
			top := stack[n-1]
			if top.left == 0 {
				stack = stack[:n-1]
				v := top.value()
				if len(stack) == 0 {
					return v, nil
				}
				stack[len(stack)-1].add(v)
				continue
			}
			top.left--
			if top.obj {
				key, err := dec.DecodeString()
				if err != nil {
					return Value{}, err
				}
				top.key = key
			}
		}
		v, open, err := decodeMsgpackItem(dec)
		if err != nil {
			return Value{}, err
		}
		if open != nil {
			stack = append(stack, open)
			continue
		}
		if len(stack) == 0 {
			return v, nil
		}
		stack[len(stack)-1].add(v)
	}
}

// decodeMsgpackItem reads a scalar, or the header of a container and
// returns a frame to collect its elements.
func decodeMsgpackItem(dec *msgpack.Decoder) (Value, *buildFrame, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return Value{}, nil, err
	}
	switch {
	case c == msgpcode.Nil:
		return Null(), nil, dec.DecodeNil()
	case c == msgpcode.False || c == msgpcode.True:
		b, err := dec.DecodeBool()
		return Bool(b), nil, err
	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		return Float(f), nil, err
	case c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return Value{}, nil, err
		}
		if u > math.MaxInt64 {
			return Uint(u), nil, nil
		}
		return Int(int64(u)), nil, nil
	case msgpcode.IsFixedNum(c), c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32,
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		n, err := dec.DecodeInt64()
		return Int(n), nil, err
	case msgpcode.IsFixedString(c), c == msgpcode.Str8, c == msgpcode.Str16, c == msgpcode.Str32:
		s, err := dec.DecodeString()
		return String(s), nil, err
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return Value{}, nil, err
		}
		return Value{}, &buildFrame{left: n, items: make([]Value, 0, min(n, 1024))}, nil
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return Value{}, nil, err
		}
		return Value{}, &buildFrame{obj: true, left: n, members: make([]Member, 0, min(n, 1024))}, nil
	default:
		return Value{}, nil, fmt.Errorf("unsupported msgpack code 0x%02x", c)
	}
}
