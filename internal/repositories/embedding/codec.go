package embedding

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/x448/float16"
)

const (
	CodecFP32 = "FP32"
	CodecFP16 = "FP16"

	headerFP32 byte = 1
	headerFP16 byte = 2
)

// Codec serializes embeddings for byte-valued backends. The first byte of every payload
// names the encoding, so a reader can decode values written with either codec.
type Codec interface {
	Encode(embedding []float32) []byte
	Decode(data []byte) ([]float32, error)
}

// NewCodec returns the codec for name, FP32 when name is empty
func NewCodec(name string) (Codec, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", CodecFP32:
		return fp32Codec{}, nil
	case CodecFP16:
		return fp16Codec{}, nil
	default:
		return nil, fmt.Errorf("unknown embedding codec %q", name)
	}
}

type fp32Codec struct{}

func (fp32Codec) Encode(embedding []float32) []byte {
	out := make([]byte, 1+4*len(embedding))
	out[0] = headerFP32
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(out[1+4*i:], math.Float32bits(v))
	}
	return out
}

func (fp32Codec) Decode(data []byte) ([]float32, error) {
	return decode(data)
}

type fp16Codec struct{}

func (fp16Codec) Encode(embedding []float32) []byte {
	out := make([]byte, 1+2*len(embedding))
	out[0] = headerFP16
	for i, v := range embedding {
		binary.LittleEndian.PutUint16(out[1+2*i:], float16.Fromfloat32(v).Bits())
	}
	return out
}

func (fp16Codec) Decode(data []byte) ([]float32, error) {
	return decode(data)
}

func decode(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty embedding payload")
	}
	body := data[1:]
	switch data[0] {
	case headerFP32:
		if len(body)%4 != 0 {
			return nil, fmt.Errorf("fp32 payload length %d not a multiple of 4", len(body))
		}
		out := make([]float32, len(body)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[4*i:]))
		}
		return out, nil
	case headerFP16:
		if len(body)%2 != 0 {
			return nil, fmt.Errorf("fp16 payload length %d not a multiple of 2", len(body))
		}
		out := make([]float32, len(body)/2)
		for i := range out {
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(body[2*i:])).Float32()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown embedding payload header %d", data[0])
	}
}
