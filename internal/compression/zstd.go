package compression

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	encoder     *ZStdEncoder
	encoderErr  error
	encoderOnce sync.Once

	decoder     *ZStdDecoder
	decoderErr  error
	decoderOnce sync.Once
)

// ZStdEncoder is shared process wide; zstd.Encoder.EncodeAll is safe for concurrent use
type ZStdEncoder struct {
	encoder *zstd.Encoder
}

func NewZStdEncoder() (*ZStdEncoder, error) {
	encoderOnce.Do(func() {
		// snapshots are written rarely, so trade CPU for size
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			encoderErr = err
			return
		}
		encoder = &ZStdEncoder{encoder: enc}
	})
	return encoder, encoderErr
}

func (e *ZStdEncoder) Encode(data []byte, outputBuffer *[]byte) {
	*outputBuffer = e.encoder.EncodeAll(data, (*outputBuffer)[:0])
}

type ZStdDecoder struct {
	decoder *zstd.Decoder
}

func NewZStdDecoder() (*ZStdDecoder, error) {
	decoderOnce.Do(func() {
		// concurrency 0 means GOMAXPROCS
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(0),
			zstd.WithDecoderLowmem(false))
		if err != nil {
			decoderErr = err
			return
		}
		decoder = &ZStdDecoder{decoder: dec}
	})
	return decoder, decoderErr
}

func (d *ZStdDecoder) Decode(cdata []byte) ([]byte, error) {
	return d.decoder.DecodeAll(cdata, make([]byte, 0, len(cdata)*3))
}
