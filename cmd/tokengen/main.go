// Command tokengen issues an access token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/pkg/jwt"
	"github.com/shard-legends/cocktails-service/pkg/logger"
)

func main() {
	var (
		email          string
		name           string
		issuer         string
		ttl            time.Duration
		privateKeyPath string
		publicKeyPath  string
		out            string
	)

	flag.StringVar(&email, "email", "", "Subject email of the token")
	flag.StringVar(&name, "name", "", "Display name claim")
	flag.StringVar(&issuer, "issuer", "cocktails-service", "Token issuer")
	flag.DurationVar(&ttl, "ttl", 720*time.Hour, "Token lifetime")
	flag.StringVar(&privateKeyPath, "private-key", "./keys/private_key.pem", "RSA private key, generated when missing")
	flag.StringVar(&publicKeyPath, "public-key", "./keys/public_key.pem", "RSA public key, generated when missing")
	flag.StringVar(&out, "out", "", "Write the token to this file instead of stdout")
	flag.Parse()

	if email == "" {
		fmt.Println("Usage: tokengen --email user@example.com [--name Nick] [--ttl 720h] [--out token.jwt]")
		os.Exit(1)
	}
	if err := logger.Init("warn"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()

	keys, err := jwt.NewKeyManager(jwt.KeyPaths{
		PrivateKeyPath: privateKeyPath,
		PublicKeyPath:  publicKeyPath,
	}, issuer, ttl, log)
	if err != nil {
		log.Fatal("Failed to load signing keys", zap.Error(err))
	}

	info, err := keys.IssueToken(email, name)
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}

	if out == "" {
		fmt.Println(info.Token)
		return
	}
	if err := os.WriteFile(out, []byte(info.Token), 0o600); err != nil {
		log.Fatal("Failed to write token", zap.String("file", out), zap.Error(err))
	}
	absPath, _ := filepath.Abs(out)
	fmt.Printf("Token for %s (jti %s, expires %s) saved to %s\n",
		email, info.JTI, info.ExpiresAt.Format(time.RFC3339), absPath)
}
