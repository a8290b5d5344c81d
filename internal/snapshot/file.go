package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Meesho/BharatMLStack/online-learner/internal/compression"
	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const filePrefix = "snapshot-"

// FileSink writes each snapshot as JSON to <dir>/snapshot-<unixms>.json, with the
// compression extension appended when compressed
type FileSink struct {
	dir             string
	compressionType compression.Type
	encoder         compression.Encoder
}

func NewFileSink(dir string, compressionType compression.Type) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating snapshot dir %s: %w", dir, err)
	}
	encoder, err := compression.GetEncoder(compressionType)
	if err != nil {
		return nil, err
	}
	return &FileSink{dir: dir, compressionType: compressionType, encoder: encoder}, nil
}

func (s *FileSink) Write(_ context.Context, snap learner.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error marshalling snapshot: %w", err)
	}
	var out []byte
	s.encoder.Encode(data, &out)

	path := s.path(snap)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("error writing snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			log.Warn().Err(rmErr).Msgf("error removing %s", tmp)
		}
		return fmt.Errorf("error renaming snapshot to %s: %w", path, err)
	}
	log.Info().Msgf("snapshot written to %s (%d bytes)", path, len(out))
	return nil
}

func (s *FileSink) path(snap learner.Snapshot) string {
	name := filePrefix + strconv.FormatInt(snap.Timestamp.UnixMilli(), 10) + ".json" + s.compressionType.Extension()
	return filepath.Join(s.dir, name)
}

// ReadFile loads a snapshot written by a FileSink, picking the decoder from the file extension
func ReadFile(path string) (learner.Snapshot, error) {
	var snap learner.Snapshot
	raw, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("error reading snapshot %s: %w", path, err)
	}
	compressionType := compression.TypeNone
	if filepath.Ext(path) == compression.TypeZSTD.Extension() {
		compressionType = compression.TypeZSTD
	}
	decoder, err := compression.GetDecoder(compressionType)
	if err != nil {
		return snap, err
	}
	data, err := decoder.Decode(raw)
	if err != nil {
		return snap, fmt.Errorf("error decompressing snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("error unmarshalling snapshot %s: %w", path, err)
	}
	return snap, nil
}
