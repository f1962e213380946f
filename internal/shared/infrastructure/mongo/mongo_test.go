package mongo

import (
	"context"
	"testing"

	"IdleCity/internal/shared/serverconfig"

	"github.com/stretchr/testify/require"
)

func TestOpen_空URI(t *testing.T) {
	_, err := Open(context.Background(), serverconfig.MongoDBConfig{}, nil)
	require.ErrorIs(t, err, ErrEmptyURI)
}

func TestEnsureSaveIndexes_空集合(t *testing.T) {
	require.Error(t, EnsureSaveIndexes(context.Background(), nil))
}
