// Package credentials provides secure storage for the chatseg database
// password.
//
// The system keyring (macOS Keychain, Windows Credential Manager, Linux
// Secret Service) is the primary store. Headless environments without a
// keyring fall back to an encrypted file under the config directory, with
// the encryption key derived from a passphrase via argon2id.
package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/argon2"
)

const (
	// keyringService is the service name used in the system keyring.
	keyringService = "chatseg"
	// keyringUser is the account name for the stored database password.
	keyringUser = "db-password"

	// credentialsFile is the encrypted fallback file name.
	credentialsFile = "credentials.enc"

	// keyLength is 256 bits for AES-256-GCM.
	keyLength  = 32
	saltLength = 16
)

// Argon2id parameters, conservative defaults balancing security and startup
// latency on developer machines.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
)

// ErrKeyringUnavailable indicates the system keyring is not available.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

// ErrNotStored indicates no password has been stored yet.
var ErrNotStored = errors.New("no password stored")

// Store persists and retrieves the database password.
type Store interface {
	Set(password string) error
	Get() (string, error)
	Delete() error

	// Description returns a human-readable description of the storage
	// mechanism, for the init command's output.
	Description() string
}

// KeyringStore keeps the password in the system keyring.
type KeyringStore struct{}

// NewKeyringStore creates a keyring-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Set stores the password in the keyring.
func (s *KeyringStore) Set(password string) error {
	if err := keyring.Set(keyringService, keyringUser, password); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Get retrieves the password from the keyring.
func (s *KeyringStore) Get() (string, error) {
	password, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotStored
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return password, nil
}

// Delete removes the password from the keyring.
func (s *KeyringStore) Delete() error {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Description returns the platform keyring name.
func (s *KeyringStore) Description() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain"
	case "windows":
		return "Windows Credential Manager"
	default:
		return "System Keyring (Secret Service)"
	}
}

// FileStore keeps the password AES-256-GCM encrypted in a file, with the key
// derived from a passphrase.
type FileStore struct {
	dir        string
	passphrase []byte
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string, passphrase []byte) *FileStore {
	return &FileStore{dir: dir, passphrase: passphrase}
}

// envelope is the on-disk format: everything needed to re-derive the key.
type envelope struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Set encrypts and writes the password.
func (s *FileStore) Set(password string) error {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	gcm, err := s.cipher(salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}

	env := envelope{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, []byte(password), nil),
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}

// Get reads and decrypts the password.
func (s *FileStore) Get() (string, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return "", ErrNotStored
	}
	if err != nil {
		return "", fmt.Errorf("reading credentials file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("parsing credentials file: %w", err)
	}

	gcm, err := s.cipher(env.Salt)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypting credentials: %w", err)
	}
	return string(plaintext), nil
}

// Delete removes the credentials file.
func (s *FileStore) Delete() error {
	err := os.Remove(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Description identifies the fallback mechanism.
func (s *FileStore) Description() string {
	return "encrypted file (" + s.path() + ")"
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, credentialsFile)
}

// cipher derives the AES-256 key from the passphrase and salt and returns
// the GCM AEAD.
func (s *FileStore) cipher(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(s.passphrase, salt, argon2Time, argon2Memory, argon2Threads, keyLength)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}
