package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

const (
	privateKeyFile = "id_ed25519"
	publicKeyFile  = "id_ed25519.pub"
)

// KeyPair holds an SSH key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the private key in OpenSSH PEM format.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// GenerateED25519KeyPair generates a new ed25519 key pair for node access.
func GenerateED25519KeyPair(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	privBlock, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: pem.EncodeToMemory(privBlock),
		PublicKey:  ssh.MarshalAuthorizedKey(sshPub),
	}, nil
}

// LoadOrGenerate returns the key pair stored in dir, generating and writing a
// new one when none exists yet. Re-running against the same dir therefore
// keeps injecting the same public key.
func LoadOrGenerate(dir, comment string) (*KeyPair, bool, error) {
	privPath := PrivateKeyPath(dir)
	pubPath := filepath.Join(dir, publicKeyFile)

	// #nosec G304
	priv, privErr := os.ReadFile(privPath)
	// #nosec G304
	pub, pubErr := os.ReadFile(pubPath)
	if privErr == nil && pubErr == nil {
		if _, _, _, _, err := ssh.ParseAuthorizedKey(pub); err != nil {
			return nil, false, fmt.Errorf("invalid public key in %s: %w", pubPath, err)
		}
		return &KeyPair{PrivateKey: priv, PublicKey: pub}, false, nil
	}
	for _, err := range []error{privErr, pubErr} {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("failed to read key pair: %w", err)
		}
	}

	kp, err := GenerateED25519KeyPair(comment)
	if err != nil {
		return nil, false, err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, false, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(privPath, kp.PrivateKey, 0600); err != nil {
		return nil, false, fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(pubPath, kp.PublicKey, 0644); err != nil {
		return nil, false, fmt.Errorf("failed to write public key: %w", err)
	}

	return kp, true, nil
}

// PrivateKeyPath is where LoadOrGenerate keeps the private key in dir.
func PrivateKeyPath(dir string) string {
	return filepath.Join(dir, privateKeyFile)
}
