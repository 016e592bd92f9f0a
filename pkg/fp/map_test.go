package fp_test

import (
	"testing"

	"github.com/opengovern/og-kms-config/pkg/fp"
	"github.com/stretchr/testify/require"
)

func TestFromMap(t *testing.T) {
	require := require.New(t)

	type database struct {
		Host     string `json:"host,omitempty"`
		Port     int    `json:"port,omitempty"`
		Password string `json:"password,omitempty"`
	}

	input := map[string]any{
		"host":     "db.internal",
		"port":     5432,
		"password": "hunter2",
	}

	db, err := fp.FromMap[database](input)
	require.NoError(err)
	require.Equal("db.internal", db.Host)
	require.Equal(5432, db.Port)
	require.Equal("hunter2", db.Password)
}

func TestFromMapTypeMismatch(t *testing.T) {
	require := require.New(t)

	type database struct {
		Port int `json:"port"`
	}

	_, err := fp.FromMap[database](map[string]any{"port": "not-a-number"})
	require.Error(err)
}

func TestKeys(t *testing.T) {
	require := require.New(t)

	require.Equal([]string{"a", "b", "c"}, fp.Keys(map[string]any{"c": 1, "a": 2, "b": 3}))
	require.Empty(fp.Keys(map[string]string{}))
}

func TestOptional(t *testing.T) {
	require := require.New(t)

	arn := "arn:aws:kms:ap-southeast-2:111122223333:key/abc"
	p := fp.Optional(arn)
	require.Equal(arn, *p)

	*p = "changed"
	require.Equal("arn:aws:kms:ap-southeast-2:111122223333:key/abc", arn)
}
