// Package export serializes report results into portable snapshot files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
)

// CompressionAlgo specifies the compression applied to the snapshot body.
type CompressionAlgo byte

const (
	CompressionNone CompressionAlgo = 0
	CompressionZstd CompressionAlgo = 1
)

// magic identifies a snapshot file; the byte after it names the compression.
var magic = []byte("BDSNAP1\n")

// Envelope wraps a snapshot payload with its provenance.
type Envelope struct {
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// Exporter encodes and decodes snapshot files. Bodies above the threshold
// are zstd-compressed; small ones are stored raw since the frame overhead
// outweighs the gain.
type Exporter struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewExporter creates an Exporter with a 10KB compression threshold.
func NewExporter() (*Exporter, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Exporter{
		encoder:   encoder,
		decoder:   decoder,
		threshold: 10 * 1024,
	}, nil
}

// Encode serializes the payload into a snapshot file body.
func (e *Exporter) Encode(kind, createdBy string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	body, err := json.Marshal(Envelope{
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
		Payload:   raw,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	algo := CompressionNone
	if len(body) > e.threshold {
		algo = CompressionZstd
		body = e.encoder.EncodeAll(body, nil)
	}

	out := make([]byte, 0, len(magic)+1+len(body))
	out = append(out, magic...)
	out = append(out, byte(algo))
	return append(out, body...), nil
}

// Decode parses a snapshot file body back into its envelope.
func (e *Exporter) Decode(data []byte) (*Envelope, error) {
	if len(data) < len(magic)+1 || !bytes.HasPrefix(data, magic) {
		return nil, fmt.Errorf("not a snapshot file")
	}
	algo := CompressionAlgo(data[len(magic)])
	body := data[len(magic)+1:]

	switch algo {
	case CompressionNone:
	case CompressionZstd:
		decompressed, err := e.decoder.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot: %w", err)
		}
		body = decompressed
	default:
		return nil, fmt.Errorf("unknown compression algo %d", algo)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return &env, nil
}
