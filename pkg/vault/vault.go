package vault

import (
	"context"
	"fmt"

	"github.com/opengovern/og-kms-config/pkg/koanf"
	"go.uber.org/zap"
)

const (
	ProviderAwsKMS         = "aws-kms"
	ProviderHashiCorpVault = "hashicorp-vault"
)

// Decrypter turns a ciphertext blob into its plaintext using an external key service.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// New builds the Decrypter selected by cfg.Provider. A nil logger discards logs.
func New(ctx context.Context, logger *zap.Logger, cfg koanf.Decryptor) (Decrypter, error) {
	logger = orNop(logger)

	switch cfg.Provider {
	case ProviderAwsKMS, "":
		return NewKMSDecrypter(ctx, logger, AwsVaultConfig{
			Region:    cfg.KMS.Region,
			RoleArn:   cfg.KMS.RoleArn,
			AccessKey: cfg.KMS.AccessKey,
			SecretKey: cfg.KMS.SecretKey,
		}, cfg.KMS.ARN)
	case ProviderHashiCorpVault:
		return NewTransitDecrypter(ctx, logger, HashiCorpConfig{
			Address: cfg.Vault.Address,
			Token:   cfg.Vault.Token,
			Role:    cfg.Vault.Role,
			CaPath:  cfg.Vault.CaPath,
			UseTLS:  cfg.Vault.UseTLS,
		}, cfg.Vault.TransitKey)
	default:
		logger.Error("unknown decryption provider", zap.String("provider", cfg.Provider))
		return nil, fmt.Errorf("unknown decryption provider %q", cfg.Provider)
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
