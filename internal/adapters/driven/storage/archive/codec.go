// Package archive stores vault snapshots as xz-compressed JSON files.
//
// Each file carries a BLAKE3 digest of its encoded state, checked on read,
// so a truncated or edited archive is rejected rather than half-restored.
package archive

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

// FormatVersion is written into every archive.
const FormatVersion = 1

// ErrChecksum indicates an archive whose state does not match its digest.
var ErrChecksum = fmt.Errorf("%w: archive checksum mismatch", domain.ErrInvalidInput)

type envelope struct {
	Version   int             `json:"version"`
	Name      string          `json:"name"`
	Hash      string          `json:"hash"`
	CreatedAt time.Time       `json:"createdAt"`
	State     json.RawMessage `json:"state"`
}

// Encode writes snapshot to w as an xz-compressed archive and sets its Hash.
func Encode(w io.Writer, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return domain.ErrInvalidInput
	}
	state, err := json.Marshal(snapshot.State)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}
	snapshot.Hash = digest(state)

	payload, err := json.Marshal(envelope{
		Version:   FormatVersion,
		Name:      snapshot.Name,
		Hash:      snapshot.Hash,
		CreatedAt: snapshot.CreatedAt,
		State:     state,
	})
	if err != nil {
		return fmt.Errorf("marshalling archive: %w", err)
	}

	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return fmt.Errorf("compressing archive: %w", err)
	}
	return zw.Close()
}

// Decode reads an archive written by Encode.
func Decode(r io.Reader) (*domain.Snapshot, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not an xz archive: %w", domain.ErrInvalidInput, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, fmt.Errorf("%w: decompressing archive: %w", domain.ErrInvalidInput, err)
	}

	var env envelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		return nil, fmt.Errorf("%w: decoding archive: %w", domain.ErrInvalidInput, err)
	}
	if env.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported archive version %d", domain.ErrInvalidInput, env.Version)
	}
	if digest(env.State) != env.Hash {
		return nil, ErrChecksum
	}

	state := domain.NewState()
	if err := json.Unmarshal(env.State, state); err != nil {
		return nil, fmt.Errorf("%w: decoding state: %w", domain.ErrInvalidInput, err)
	}

	return &domain.Snapshot{
		Name:      env.Name,
		State:     state,
		Hash:      env.Hash,
		CreatedAt: env.CreatedAt,
	}, nil
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
