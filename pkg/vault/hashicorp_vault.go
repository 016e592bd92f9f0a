package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"

	vault "github.com/hashicorp/vault/api"
	kubernetesAuth "github.com/hashicorp/vault/api/auth/kubernetes"
	"go.uber.org/zap"
)

const (
	transitMountPath = "transit"
	ciphertextKey    = "ciphertext"
	plaintextKey     = "plaintext"
)

type HashiCorpConfig struct {
	Address string `json:"address" yaml:"address" koanf:"address"`
	Token   string `json:"token" yaml:"token" koanf:"token"`
	Role    string `json:"role" yaml:"role" koanf:"role"`
	CaPath  string `json:"ca_path" yaml:"ca_path" koanf:"ca_path"`
	UseTLS  bool   `json:"use_tls" yaml:"use_tls" koanf:"use_tls"`
}

func newHashiCorpClient(ctx context.Context, logger *zap.Logger, config HashiCorpConfig) (*vault.Client, error) {
	vaultCfg := vault.DefaultConfig()
	vaultCfg.Address = config.Address
	if config.UseTLS {
		if err := vaultCfg.ConfigureTLS(&vault.TLSConfig{CACert: config.CaPath}); err != nil {
			logger.Error("failed to configure TLS", zap.Error(err))
			return nil, err
		}
	}

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		logger.Error("failed to create HashiCorp Vault client", zap.Error(err))
		return nil, err
	}

	if config.Token != "" {
		client.SetToken(config.Token)
		return client, nil
	}

	if config.Role != "" {
		k8sAuth, err := kubernetesAuth.NewKubernetesAuth(config.Role)
		if err != nil {
			logger.Error("failed to create Kubernetes auth", zap.Error(err))
			return nil, err
		}

		authInfo, err := client.Auth().Login(ctx, k8sAuth)
		if err != nil {
			logger.Error("failed to login", zap.Error(err), zap.String("role", config.Role))
			return nil, err
		}
		if authInfo == nil {
			return nil, fmt.Errorf("authInfo is nil")
		}
	}

	return client, nil
}

// TransitDecrypter decrypts with the Vault transit secrets engine. The ciphertext
// bytes are the transit ciphertext string, e.g. "vault:v1:...".
type TransitDecrypter struct {
	logger  *zap.Logger
	client  *vault.Client
	keyName string
}

func NewTransitDecrypter(ctx context.Context, logger *zap.Logger, config HashiCorpConfig, keyName string) (*TransitDecrypter, error) {
	logger = orNop(logger)
	if keyName == "" {
		return nil, errors.New("transit key name is empty")
	}

	client, err := newHashiCorpClient(ctx, logger, config)
	if err != nil {
		return nil, err
	}

	return &TransitDecrypter{
		logger:  logger,
		client:  client,
		keyName: keyName,
	}, nil
}

func (t *TransitDecrypter) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	secret, err := t.client.Logical().WriteWithContext(ctx, path.Join(transitMountPath, "decrypt", t.keyName), map[string]any{
		ciphertextKey: string(ciphertext),
	})
	if err != nil {
		t.logger.Error("failed to decrypt ciphertext", zap.Error(err), zap.String("key", t.keyName))
		return nil, fmt.Errorf("failed to decrypt ciphertext: %w", err)
	}
	if secret == nil || secret.Data == nil || secret.Data[plaintextKey] == nil {
		t.logger.Error("plaintext is nil", zap.String("key", t.keyName))
		return nil, errors.New("plaintext is nil")
	}

	encoded, ok := secret.Data[plaintextKey].(string)
	if !ok {
		t.logger.Error("plaintext is not a string", zap.String("key", t.keyName))
		return nil, errors.New("plaintext is not a string")
	}

	plaintext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.logger.Error("failed to decode plaintext", zap.Error(err), zap.String("key", t.keyName))
		return nil, err
	}

	return plaintext, nil
}
