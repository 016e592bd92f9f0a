// Package kmsconfig decrypts the KMS ciphertext values of an already parsed config.
//
// A config may carry a reserved "kms" mapping whose values are base64 encoded
// ciphertext blobs:
//
//	{
//	    "foo": "bar",
//	    "kms": {
//	        "secretToHappiness": "<base64 ciphertext>"
//	    }
//	}
//
// Decrypt returns a deep copy of the config where every kms value has been
// replaced by its UTF-8 plaintext. The caller's config is never modified.
// Each call goes to the key service again, so callers should decrypt once and
// keep the result.
package kmsconfig

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/opengovern/og-kms-config/pkg/fp"
	"github.com/opengovern/og-kms-config/pkg/koanf"
	"github.com/opengovern/og-kms-config/pkg/logger"
	"github.com/opengovern/og-kms-config/pkg/vault"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// KMSKey is the config key holding the ciphertext values.
const KMSKey = "kms"

type Option func(*Decryptor)

// WithConcurrency caps the number of decrypt calls in flight. n <= 0 means no cap.
func WithConcurrency(n int) Option {
	return func(d *Decryptor) {
		d.concurrency = n
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Decryptor) {
		if logger != nil {
			d.logger = logger
		}
	}
}

type Decryptor struct {
	decrypter   vault.Decrypter
	logger      *zap.Logger
	concurrency int
}

func New(decrypter vault.Decrypter, opts ...Option) *Decryptor {
	d := &Decryptor{
		decrypter: decrypter,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// NewFromConfig builds the key service decrypter selected by cfg and a Decryptor
// logging at cfg.LogLevel with at most cfg.Concurrency calls in flight. opts are
// applied last.
func NewFromConfig(ctx context.Context, cfg koanf.Decryptor, opts ...Option) (*Decryptor, error) {
	l, err := logger.New("kmsconfig", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	decrypter, err := vault.New(ctx, l.Zap(), cfg)
	if err != nil {
		l.Zap().Error("failed to create decrypter", zap.Error(err), zap.String("provider", cfg.Provider))
		return nil, err
	}

	opts = append([]Option{WithLogger(l.Zap()), WithConcurrency(cfg.Concurrency)}, opts...)
	return New(decrypter, opts...), nil
}

// Decrypt is a shorthand for New(decrypter, opts...).Decrypt(ctx, config).
func Decrypt(ctx context.Context, decrypter vault.Decrypter, config map[string]any, opts ...Option) (map[string]any, error) {
	return New(decrypter, opts...).Decrypt(ctx, config)
}

// DecryptInto decrypts config and maps the result onto T using its json tags.
func DecryptInto[T any](ctx context.Context, d *Decryptor, config map[string]any) (*T, error) {
	resolved, err := d.Decrypt(ctx, config)
	if err != nil {
		return nil, err
	}

	out, err := fp.FromMap[T](resolved)
	if err != nil {
		d.logger.Error("failed to map the decrypted config", zap.Error(err))
		return nil, err
	}

	return out, nil
}

// Decrypt returns a copy of config with every kms value decrypted. Either all
// values decrypt or an error is returned, a partially decrypted config is never
// handed out.
func (d *Decryptor) Decrypt(ctx context.Context, config map[string]any) (map[string]any, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: expected raw config object", ErrInvalidArgument)
	}

	clone, err := cloneConfig(config)
	if err != nil {
		d.logger.Error("failed to clone config", zap.Error(err))
		return nil, err
	}

	entries, err := kmsEntries(clone[KMSKey])
	if err != nil {
		d.logger.Error("invalid kms section", zap.Error(err))
		return nil, err
	}
	if len(entries) == 0 {
		return clone, nil
	}
	if d.decrypter == nil {
		return nil, fmt.Errorf("%w: no decrypter configured", ErrInvalidArgument)
	}

	keys := fp.Keys(entries)
	// each goroutine only writes its own slot
	plaintexts := make([]string, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	if d.concurrency > 0 {
		g.SetLimit(d.concurrency)
	}
	for i, key := range keys {
		g.Go(func() error {
			plaintext, err := d.decryptEntry(gctx, key, entries[key])
			if err != nil {
				return err
			}
			plaintexts[i] = plaintext
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch kms := clone[KMSKey].(type) {
	case map[string]any:
		for i, key := range keys {
			kms[key] = plaintexts[i]
		}
	case map[string]string:
		for i, key := range keys {
			kms[key] = plaintexts[i]
		}
	case map[any]any:
		for i, key := range keys {
			kms[key] = plaintexts[i]
		}
	}

	d.logger.Debug("decrypted kms config", zap.Int("entries", len(keys)))
	return clone, nil
}

func (d *Decryptor) decryptEntry(ctx context.Context, key, value string) (string, error) {
	ciphertext, err := decodeCiphertext(value)
	if err != nil {
		d.logger.Error("failed to decode the kms value", zap.Error(err), zap.String("key", key))
		return "", &DecryptionError{Key: key, Err: err}
	}

	plaintext, err := d.decrypter.Decrypt(ctx, ciphertext)
	if err != nil {
		d.logger.Error("failed to decrypt the kms value", zap.Error(err), zap.String("key", key))
		return "", &DecryptionError{Key: key, Err: err}
	}

	return string(plaintext), nil
}

// decodeCiphertext accepts padded or unpadded base64 in the standard or URL alphabet.
func decodeCiphertext(value string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		ciphertext, err := enc.DecodeString(value)
		if err == nil {
			return ciphertext, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

func kmsEntries(v any) (map[string]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return t, nil
	case map[string]any:
		entries := make(map[string]string, len(t))
		for k, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: kms.%s is %T, expected a base64 string", ErrInvalidArgument, k, e)
			}
			entries[k] = s
		}
		return entries, nil
	case map[any]any:
		// yaml.v2 style mapping
		entries := make(map[string]string, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: kms key %v is %T, expected a string", ErrInvalidArgument, k, k)
			}
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: kms.%s is %T, expected a base64 string", ErrInvalidArgument, ks, e)
			}
			entries[ks] = s
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: kms is %T, expected a mapping", ErrInvalidArgument, v)
	}
}
