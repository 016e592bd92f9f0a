package vault

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/opengovern/og-kms-config/pkg/fp"
	"go.uber.org/zap"
)

type AwsVaultConfig struct {
	Region    string `yaml:"region" json:"region" koanf:"region"`
	RoleArn   string `yaml:"role_arn" json:"role_arn" koanf:"role_arn"`
	AccessKey string `yaml:"access_key" json:"access_key" koanf:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key" koanf:"secret_key"`
}

// KMSAPI is the part of the KMS client the decrypter needs.
type KMSAPI interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

func getAWSConfig(ctx context.Context, awsConfig AwsVaultConfig) (aws.Config, error) {
	opts := make([]func(*config.LoadOptions) error, 0)

	// if the keys are not provided, the default credentials chain is used
	if awsConfig.AccessKey != "" && awsConfig.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(awsConfig.AccessKey, awsConfig.SecretKey, "")))
	}
	if awsConfig.Region != "" {
		opts = append(opts, config.WithRegion(awsConfig.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if awsConfig.RoleArn != "" {
		cfg.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), awsConfig.RoleArn))
	}

	return cfg, nil
}

type KMSDecrypter struct {
	logger    *zap.Logger
	kmsClient KMSAPI
	keyArn    string
}

// NewKMSDecrypter creates a decrypter backed by AWS KMS. keyArn may be empty for
// symmetric keys, KMS reads the key from the ciphertext metadata.
func NewKMSDecrypter(ctx context.Context, logger *zap.Logger, awsConfig AwsVaultConfig, keyArn string) (*KMSDecrypter, error) {
	logger = orNop(logger)
	cfg, err := getAWSConfig(ctx, awsConfig)
	if err != nil {
		logger.Error("failed to load SDK configuration", zap.Error(err), zap.String("region", awsConfig.Region))
		return nil, err
	}

	return NewKMSDecrypterFromClient(logger, kms.NewFromConfig(cfg), keyArn), nil
}

func NewKMSDecrypterFromClient(logger *zap.Logger, client KMSAPI, keyArn string) *KMSDecrypter {
	return &KMSDecrypter{
		logger:    orNop(logger),
		kmsClient: client,
		keyArn:    keyArn,
	}
}

func (v *KMSDecrypter) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	input := &kms.DecryptInput{
		CiphertextBlob:      ciphertext,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpecSymmetricDefault,
	}
	if v.keyArn != "" {
		input.KeyId = fp.Optional(v.keyArn)
	}

	result, err := v.kmsClient.Decrypt(ctx, input)
	if err != nil {
		v.logger.Error("failed to decrypt ciphertext", zap.Error(err), zap.String("keyArn", v.keyArn))
		return nil, fmt.Errorf("failed to decrypt ciphertext: %w", err)
	}

	return result.Plaintext, nil
}
