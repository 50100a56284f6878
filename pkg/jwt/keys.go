package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// KeyPaths holds the paths to private and public key files
type KeyPaths struct {
	PrivateKeyPath string
	PublicKeyPath  string
}

// keysExist checks if both private and public key files exist
func (p KeyPaths) keysExist() bool {
	_, privateErr := os.Stat(p.PrivateKeyPath)
	_, publicErr := os.Stat(p.PublicKeyPath)
	return privateErr == nil && publicErr == nil
}

// LoadOrGenerateKeys loads an existing RSA key pair or generates and saves a new one
func LoadOrGenerateKeys(paths KeyPaths) (*rsa.PrivateKey, bool, error) {
	if paths.keysExist() {
		key, err := loadPrivateKey(paths.PrivateKeyPath)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load private key: %w", err)
		}
		public, err := LoadPublicKeyFromFile(paths.PublicKeyPath)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load public key: %w", err)
		}
		if !key.PublicKey.Equal(public) {
			return nil, false, fmt.Errorf("public key does not match private key")
		}
		return key, false, nil
	}

	// 2048 bits, same as the other services
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate RSA private key: %w", err)
	}
	if err := savePrivateKey(paths.PrivateKeyPath, key); err != nil {
		return nil, false, fmt.Errorf("failed to save private key: %w", err)
	}
	if err := savePublicKey(paths.PublicKeyPath, &key.PublicKey); err != nil {
		return nil, false, fmt.Errorf("failed to save public key: %w", err)
	}
	return key, true, nil
}

func savePrivateKey(path string, key *rsa.PrivateKey) error {
	if err := ensureKeyDirectory(path); err != nil {
		return err
	}

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create private key file: %w", err)
	}
	defer file.Close()

	if err := pem.Encode(file, block); err != nil {
		return fmt.Errorf("failed to encode private key: %w", err)
	}
	return nil
}

func savePublicKey(path string, key *rsa.PublicKey) error {
	if err := ensureKeyDirectory(path); err != nil {
		return err
	}

	data, err := EncodePublicKeyPEM(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write public key file: %w", err)
	}
	return nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode private key PEM")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS8 private key: %w", err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("key is not an RSA private key")
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("invalid private key type: %s", block.Type)
	}
}

// LoadPublicKeyFromFile loads an RSA public key from a PEM file
func LoadPublicKeyFromFile(keyPath string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	return ParsePublicKeyPEM(keyData)
}

// ParsePublicKeyPEM parses PEM-encoded public key data (PKIX or PKCS1)
func ParsePublicKeyPEM(keyData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode public key PEM")
	}

	switch block.Type {
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
		}
		publicKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("key is not an RSA public key")
		}
		return publicKey, nil
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS1 public key: %w", err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("unsupported key type: %s", block.Type)
	}
}

// EncodePublicKeyPEM encodes a public key as a PKIX PEM block
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

func ensureKeyDirectory(keyPath string) error {
	if err := os.MkdirAll(filepath.Dir(keyPath), 0755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	return nil
}
