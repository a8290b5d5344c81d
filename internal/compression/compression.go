package compression

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeNone Type = iota
	TypeZSTD
)

type Encoder interface {
	Encode(data []byte, outputBuffer *[]byte)
}

type Decoder interface {
	Decode(compressedData []byte) ([]byte, error)
}

// ParseType maps NONE or ZSTD, case-insensitive, to a Type
func ParseType(name string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "NONE":
		return TypeNone, nil
	case "ZSTD":
		return TypeZSTD, nil
	default:
		return TypeNone, fmt.Errorf("unsupported compression type: %s", name)
	}
}

// Extension is the file suffix for data compressed with t
func (t Type) Extension() string {
	if t == TypeZSTD {
		return ".zst"
	}
	return ""
}

func GetEncoder(compressionType Type) (Encoder, error) {
	switch compressionType {
	case TypeNone:
		return noneCodec{}, nil
	case TypeZSTD:
		return NewZStdEncoder()
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compressionType)
	}
}

func GetDecoder(compressionType Type) (Decoder, error) {
	switch compressionType {
	case TypeNone:
		return noneCodec{}, nil
	case TypeZSTD:
		return NewZStdDecoder()
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compressionType)
	}
}

type noneCodec struct{}

func (noneCodec) Encode(data []byte, outputBuffer *[]byte) {
	*outputBuffer = append((*outputBuffer)[:0], data...)
}

func (noneCodec) Decode(data []byte) ([]byte, error) {
	return data, nil
}
