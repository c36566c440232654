package codec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/arkive/arkerr"
)

func TestAdapterFailIsSticky(t *testing.T) {
	ad := NewAdapter(context.Background())
	require.False(t, ad.Failed())

	first := errors.New("first")
	ad.Fail(first)
	ad.Fail(errors.New("second"))

	require.True(t, ad.Failed())
	require.Equal(t, first, ad.Err())
}

func TestAdapterCheckCancelReflectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ad := NewAdapter(ctx)

	require.NoError(t, ad.CheckCancel())
	require.False(t, ad.Failed())

	cancel()

	require.True(t, ad.Failed())
	require.True(t, arkerr.IsKind(ad.CheckCancel(), arkerr.KindCancelled))
	require.True(t, arkerr.IsKind(ad.Err(), arkerr.KindCancelled))
}

func TestAdapterNilContextDefaultsToBackground(t *testing.T) {
	ad := NewAdapter(nil)
	require.NoError(t, ad.CheckCancel())
}
