package encryption

import (
	"bytes"
	"fmt"
	"io"

	"journal-coach/internal/backup"
)

// NoneEncryptor uploads snapshots as-is. Meant for vaults that are already
// private, such as a local directory.
type NoneEncryptor struct{}

var _ backup.Encryptor = NoneEncryptor{}

func (NoneEncryptor) Setup(string) error { return nil }
func (NoneEncryptor) IsConfigured() bool { return true }
func (NoneEncryptor) Extension() string  { return "" }

func (NoneEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	_, err := io.Copy(w, r)
	return err
}

func (NoneEncryptor) Unlock(string) (backup.DecryptionContext, error) {
	return passthrough{}, nil
}

type passthrough struct{}

func (passthrough) Decrypt(r io.Reader, w io.Writer) error {
	_, err := io.Copy(w, r)
	return err
}

var markerHeader = []byte("JRNLTEST")

// MarkerEncryptor is a deterministic stand-in for tests. It prefixes a fixed
// header so sealed output never equals the plaintext, and any passphrase
// unlocks it.
type MarkerEncryptor struct {
	SetupCalls int
}

var _ backup.Encryptor = (*MarkerEncryptor)(nil)

func NewMarkerEncryptor() *MarkerEncryptor { return &MarkerEncryptor{} }

func (e *MarkerEncryptor) Setup(string) error {
	e.SetupCalls++
	return nil
}

func (e *MarkerEncryptor) IsConfigured() bool { return true }
func (e *MarkerEncryptor) Extension() string  { return ".test" }

func (e *MarkerEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(markerHeader); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	_, err := io.Copy(w, r)
	return err
}

func (e *MarkerEncryptor) Unlock(string) (backup.DecryptionContext, error) {
	return markerDecrypter{}, nil
}

type markerDecrypter struct{}

func (markerDecrypter) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(markerHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading marker: %w", err)
	}
	if !bytes.Equal(header, markerHeader) {
		return fmt.Errorf("snapshot was not sealed by the test encryptor")
	}
	_, err := io.Copy(w, r)
	return err
}
