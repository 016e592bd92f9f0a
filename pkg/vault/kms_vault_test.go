package vault_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/opengovern/og-kms-config/pkg/vault"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKMS struct {
	input *kms.DecryptInput
	out   *kms.DecryptOutput
	err   error
}

func (f *fakeKMS) Decrypt(_ context.Context, params *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestKMSDecrypt(t *testing.T) {
	require := require.New(t)

	client := &fakeKMS{out: &kms.DecryptOutput{Plaintext: []byte("hello")}}
	d := vault.NewKMSDecrypterFromClient(zap.NewNop(), client, "arn:aws:kms:ap-southeast-2:111122223333:key/abc")

	plaintext, err := d.Decrypt(context.Background(), []byte("blob"))
	require.NoError(err)
	require.Equal([]byte("hello"), plaintext)
	require.Equal([]byte("blob"), client.input.CiphertextBlob)
	require.Equal(types.EncryptionAlgorithmSpecSymmetricDefault, client.input.EncryptionAlgorithm)
	require.Equal("arn:aws:kms:ap-southeast-2:111122223333:key/abc", *client.input.KeyId)
}

func TestKMSDecryptWithoutKeyArn(t *testing.T) {
	require := require.New(t)

	client := &fakeKMS{out: &kms.DecryptOutput{Plaintext: []byte("hello")}}
	d := vault.NewKMSDecrypterFromClient(zap.NewNop(), client, "")

	_, err := d.Decrypt(context.Background(), []byte("blob"))
	require.NoError(err)
	require.Nil(client.input.KeyId)
}

func TestKMSDecryptError(t *testing.T) {
	require := require.New(t)

	denied := errors.New("AccessDeniedException")
	client := &fakeKMS{err: denied}
	d := vault.NewKMSDecrypterFromClient(zap.NewNop(), client, "")

	_, err := d.Decrypt(context.Background(), []byte("blob"))
	require.ErrorIs(err, denied)
}

func TestKMSDecryptNilLogger(t *testing.T) {
	require := require.New(t)

	d := vault.NewKMSDecrypterFromClient(nil, &fakeKMS{err: errors.New("AccessDeniedException")}, "")

	_, err := d.Decrypt(context.Background(), []byte("blob"))
	require.Error(err)
}
