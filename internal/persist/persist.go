// Package persist serializes the history to disk as one authenticated-
// encrypted file.
//
// Saves are atomic: the encoded snapshot is sealed, written to a temp file
// in the target directory, and renamed over the previous file, so an
// interrupted write never corrupts the last good state. Loads collapse
// every failure mode (missing file, unavailable key, failed authentication,
// malformed encoding) to an empty snapshot: first run and corruption are
// deliberately indistinguishable to the caller.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/seal"
	"github.com/clipvault/clipvault/internal/vault"
)

const (
	fileMode = 0600
	dirMode  = 0700
)

// Engine writes and reads the encrypted history file. Saves are serialized
// among themselves so a superseding save cannot interleave with an
// in-flight one on the same path.
type Engine struct {
	path  string
	vault *vault.KeyVault
	log   zerolog.Logger

	saveMu sync.Mutex
}

// NewEngine creates an Engine persisting to path, keyed from kv.
func NewEngine(path string, kv *vault.KeyVault, log zerolog.Logger) *Engine {
	return &Engine{
		path:  path,
		vault: kv,
		log:   log.With().Str("component", "persist").Logger(),
	}
}

// Path returns the history file location.
func (e *Engine) Path() string {
	return e.path
}

// Save encodes, encrypts, and atomically writes the snapshot. On any
// failure the previously saved file remains intact.
func (e *Engine) Save(snap history.Snapshot) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	key, err := e.vault.EncryptionKey()
	if err != nil {
		return fmt.Errorf("fetching encryption key: %w", err)
	}

	plain, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	sealed, err := seal.Encrypt(plain, key)
	if err != nil {
		return fmt.Errorf("encrypting snapshot: %w", err)
	}

	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, sealed); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmpName, e.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing history file: %w", err)
	}

	e.log.Debug().Int("entries", len(snap.Entries)).Int("bytes", len(sealed)).Msg("snapshot saved")
	return nil
}

// Load reads and decrypts the history file. Every failure degrades to an
// empty snapshot; nothing is raised to the caller.
func (e *Engine) Load() history.Snapshot {
	sealed, err := os.ReadFile(e.path)
	if err != nil {
		if !os.IsNotExist(err) {
			e.log.Warn().Err(err).Msg("history file unreadable, starting empty")
		}
		return history.Snapshot{}
	}

	key, err := e.vault.EncryptionKey()
	if err != nil {
		e.log.Warn().Err(err).Msg("encryption key unavailable, starting empty")
		return history.Snapshot{}
	}

	plain, err := seal.Decrypt(sealed, key)
	if err != nil {
		e.log.Warn().Err(err).Msg("history file failed authentication, starting empty")
		return history.Snapshot{}
	}

	var snap history.Snapshot
	if err := json.Unmarshal(plain, &snap); err != nil {
		e.log.Warn().Err(err).Msg("history file malformed, starting empty")
		return history.Snapshot{}
	}

	e.log.Debug().Int("entries", len(snap.Entries)).Msg("snapshot loaded")
	return snap
}

// writeAndClose writes data with restrictive permissions, syncs, and closes.
func writeAndClose(f *os.File, data []byte) error {
	defer f.Close()

	if err := f.Chmod(fileMode); err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
