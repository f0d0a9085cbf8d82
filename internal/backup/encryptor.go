package backup

import "io"

// Encryptor handles encryption of snapshots and unlocking for decryption.
// Encryption uses the public key only; decryption requires a passphrase to
// unlock the private key, producing a DecryptionContext for the session.
type Encryptor interface {
	// Setup performs one-time key generation. Called by `journal keys init`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if the keys exist at the configured paths.
	IsConfigured() bool

	// Extension is appended to snapshot names, e.g. ".age".
	Extension() string
}

// DecryptionContext holds an unlocked private key in memory for the duration
// of a restore. The unlocked key is never written to disk.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
