package kmsconfig

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// DecryptionError reports the kms entry whose decryption failed.
// Decryption failures are most often caused by missing kms:Decrypt permission on the key.
type DecryptionError struct {
	Key string
	Err error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("failed to decrypt kms.%s: %v", e.Key, e.Err)
}

func (e *DecryptionError) Unwrap() error {
	return e.Err
}

func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}
