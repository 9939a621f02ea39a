// ============================================================================
// CACHESTORE: SAVE_CACHE / LOAD_CACHE BYTE-STREAM COLLABORATOR
// ============================================================================
//
// Saving and loading a cache is backend-independent: whatever Save writes,
// Load reads back into an identical representative list. Backend is the
// seam; File and SQLite are two concrete implementations, built on a
// sha3.Sum256 checksum and sql.Open("sqlite3", ...) respectively,
// repointed at basis representative lists instead of blockchain state.
package cachestore

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"
)

// Meta is the basis metadata a saved cache is keyed and annotated by.
type Meta struct {
	NumberSpins      int
	HammingWeight    *int
	SpinInversion    int
	TableFingerprint uint64 // caller-supplied hash of the symmetry table
}

// Backend persists and restores a representative list for a given basis.
type Backend interface {
	Save(meta Meta, states []uint64) error
	Load(meta Meta) ([]uint64, error)
}

// manifest is the small JSON sidecar written next to a File-backed cache,
// encoded with sonnet rather than encoding/json.
type manifest struct {
	NumberSpins   int    `json:"number_spins"`
	HammingWeight *int   `json:"hamming_weight,omitempty"`
	SpinInversion int    `json:"spin_inversion"`
	Count         uint64 `json:"count"`
	Checksum      string `json:"checksum"`
}

const fileMagic uint32 = 0x4c534348 // "LSCH"

// File is a flat binary backend: a header, the representative list as
// little-endian uint64s, and a SHA3-256 checksum over everything before
// it, plus a JSON manifest sidecar for human inspection.
type File struct {
	DataPath     string
	ManifestPath string
}

// Save writes states to f.DataPath and a manifest to f.ManifestPath.
func (f File) Save(meta Meta, states []uint64) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, fileMagic); err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(states))); err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, states); err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	sum := sha3.Sum256(buf.Bytes())
	buf.Write(sum[:])

	if err := os.WriteFile(f.DataPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}

	m := manifest{
		NumberSpins:   meta.NumberSpins,
		HammingWeight: meta.HammingWeight,
		SpinInversion: meta.SpinInversion,
		Count:         uint64(len(states)),
		Checksum:      fmt.Sprintf("%x", sum),
	}
	manifestBytes, err := sonnet.Marshal(m)
	if err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	if err := os.WriteFile(f.ManifestPath, manifestBytes, 0o644); err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	return nil
}

// Load reads states back from f.DataPath, verifying the trailing checksum.
func (f File) Load(meta Meta) ([]uint64, error) {
	raw, err := os.ReadFile(f.DataPath)
	if err != nil {
		return nil, fmt.Errorf("cachestore: %w", err)
	}
	const checksumLen = 32
	if len(raw) < 4+8+checksumLen {
		return nil, fmt.Errorf("cachestore: truncated cache file")
	}
	body := raw[:len(raw)-checksumLen]
	wantSum := raw[len(raw)-checksumLen:]
	gotSum := sha3.Sum256(body)
	if !bytes.Equal(gotSum[:], wantSum) {
		return nil, fmt.Errorf("cachestore: checksum mismatch")
	}

	r := bytes.NewReader(body)
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("cachestore: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("cachestore: bad file magic")
	}
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("cachestore: %w", err)
	}
	states := make([]uint64, count)
	if err := binary.Read(r, binary.LittleEndian, states); err != nil {
		return nil, fmt.Errorf("cachestore: %w", err)
	}
	return states, nil
}

// SQLite is a single-table backend: one row per basis fingerprint, storing
// the representative list as a BLOB.
type SQLite struct {
	Path string
}

func fingerprintKey(m Meta) string {
	h := -1
	if m.HammingWeight != nil {
		h = *m.HammingWeight
	}
	return fmt.Sprintf("%d:%d:%d:%x", m.NumberSpins, h, m.SpinInversion, m.TableFingerprint)
}

func (s SQLite) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.Path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS basis_cache (
		fingerprint TEXT PRIMARY KEY,
		number_spins INTEGER,
		hamming_weight INTEGER,
		spin_inversion INTEGER,
		count INTEGER,
		states BLOB
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Save upserts states under meta's fingerprint key.
func (s SQLite) Save(meta Meta, states []uint64) error {
	db, err := s.open()
	if err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	defer db.Close()

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, states); err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	h := -1
	if meta.HammingWeight != nil {
		h = *meta.HammingWeight
	}
	_, err = db.Exec(`INSERT INTO basis_cache
		(fingerprint, number_spins, hamming_weight, spin_inversion, count, states)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET states=excluded.states, count=excluded.count`,
		fingerprintKey(meta), meta.NumberSpins, h, meta.SpinInversion, len(states), buf.Bytes())
	if err != nil {
		return fmt.Errorf("cachestore: %w", err)
	}
	return nil
}

// Load restores states for meta's fingerprint key.
func (s SQLite) Load(meta Meta) ([]uint64, error) {
	db, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("cachestore: %w", err)
	}
	defer db.Close()

	var blob []byte
	var count int64
	err = db.QueryRow(`SELECT count, states FROM basis_cache WHERE fingerprint = ?`,
		fingerprintKey(meta)).Scan(&count, &blob)
	if err != nil {
		return nil, fmt.Errorf("cachestore: %w", err)
	}
	states := make([]uint64, count)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, states); err != nil {
		return nil, fmt.Errorf("cachestore: %w", err)
	}
	return states, nil
}
