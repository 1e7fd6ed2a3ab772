// Package udp carries sample batches over UDP. Each datagram is a
// little-endian uint16 length followed by a protobuf message:
//
//	message Batch {
//	  repeated float reals = 1;   // packed
//	  repeated float complex = 2; // packed, interleaved re, im
//	}
package udp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	realsField   protowire.Number = 1
	complexField protowire.Number = 2

	headerSize = 2
	// MaxMessageSize is the largest payload the uint16 header can describe.
	MaxMessageSize = math.MaxUint16
)

var (
	ErrShortDatagram   = errors.New("datagram shorter than header")
	ErrLengthMismatch  = errors.New("header length does not match payload")
	ErrOddComplex      = errors.New("complex field has an odd number of floats")
	ErrMessageTooLarge = errors.New("encoded batch exceeds maximum datagram size")
)

// Batch is one datagram's worth of samples. Either slice may be empty.
type Batch struct {
	Reals   []float32
	Complex []complex64
}

func (b Batch) Empty() bool {
	return len(b.Reals) == 0 && len(b.Complex) == 0
}

func appendPacked(buf []byte, num protowire.Number, vals []float32) []byte {
	if len(vals) == 0 {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	buf = protowire.AppendVarint(buf, uint64(len(vals)*4))
	for _, v := range vals {
		buf = protowire.AppendFixed32(buf, math.Float32bits(v))
	}
	return buf
}

// Marshal encodes the protobuf message without the length header.
func (b Batch) Marshal() []byte {
	var buf []byte
	buf = appendPacked(buf, realsField, b.Reals)

	if len(b.Complex) > 0 {
		inter := make([]float32, 0, 2*len(b.Complex))
		for _, c := range b.Complex {
			inter = append(inter, real(c), imag(c))
		}
		buf = appendPacked(buf, complexField, inter)
	}
	return buf
}

// Encode produces a full datagram.
func Encode(b Batch) ([]byte, error) {
	msg := b.Marshal()
	if len(msg) > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(msg))
	}

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, uint16(len(msg))); err != nil {
		return nil, err
	}
	out.Write(msg)
	return out.Bytes(), nil
}

// Decode parses a full datagram.
func Decode(datagram []byte) (Batch, error) {
	if len(datagram) < headerSize {
		return Batch{}, ErrShortDatagram
	}
	n := int(binary.LittleEndian.Uint16(datagram))
	if n != len(datagram)-headerSize {
		return Batch{}, fmt.Errorf("%w: header %d, payload %d", ErrLengthMismatch, n, len(datagram)-headerSize)
	}
	return Unmarshal(datagram[headerSize:])
}

// Unmarshal parses a message without the length header. Unknown fields are
// skipped; both packed and unpacked encodings are accepted.
func Unmarshal(msg []byte) (Batch, error) {
	var reals, inter []float32

	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return Batch{}, protowire.ParseError(n)
		}
		msg = msg[n:]

		var dst *[]float32
		switch num {
		case realsField:
			dst = &reals
		case complexField:
			dst = &inter
		}

		switch {
		case dst != nil && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(msg)
			if n < 0 {
				return Batch{}, protowire.ParseError(n)
			}
			msg = msg[n:]
			for len(packed) > 0 {
				v, m := protowire.ConsumeFixed32(packed)
				if m < 0 {
					return Batch{}, protowire.ParseError(m)
				}
				*dst = append(*dst, math.Float32frombits(v))
				packed = packed[m:]
			}
		case dst != nil && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(msg)
			if n < 0 {
				return Batch{}, protowire.ParseError(n)
			}
			msg = msg[n:]
			*dst = append(*dst, math.Float32frombits(v))
		default:
			n := protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return Batch{}, protowire.ParseError(n)
			}
			msg = msg[n:]
		}
	}

	if len(inter)%2 != 0 {
		return Batch{}, ErrOddComplex
	}

	b := Batch{Reals: reals}
	if len(inter) > 0 {
		b.Complex = make([]complex64, len(inter)/2)
		for i := range b.Complex {
			b.Complex[i] = complex(inter[2*i], inter[2*i+1])
		}
	}
	return b, nil
}
