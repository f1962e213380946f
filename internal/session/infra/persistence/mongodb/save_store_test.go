package mongodb

import (
	"context"
	"testing"

	"IdleCity/internal/session/errs"

	"github.com/stretchr/testify/require"
)

func TestSaveStore_未连接(t *testing.T) {
	s := NewSaveStore(nil)

	_, err := s.Get(context.Background(), 1)
	require.Equal(t, errs.KindInfra, errs.KindOf(err))

	err = s.Put(context.Background(), 1, 1, []byte("x"))
	require.Equal(t, errs.KindInfra, errs.KindOf(err))
}
