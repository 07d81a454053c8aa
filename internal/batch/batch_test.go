package batch

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMap_KeepsOrder(t *testing.T) {
	in := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	out, err := Map(context.Background(), 3, in, func(_ context.Context, s string) (string, error) {
		time.Sleep(time.Duration(5-len(s)) * time.Millisecond)
		return strings.ToUpper(s), nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "BB", "CCC", "DDDD", "EEEEE"}, out)
}

func TestMap_RespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	in := make([]int, 20)
	_, err := Map(context.Background(), 2, in, func(_ context.Context, _ int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return 0, nil
	})
	require.NoError(t, err)
	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestMap_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	_, err := Map(context.Background(), 4, []int{1, 2, 3}, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})
	require.ErrorIs(t, err, boom)
}

func TestMap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Map(ctx, 1, []int{1, 2}, func(_ context.Context, v int) (int, error) { return v, nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestMap_Empty(t *testing.T) {
	out, err := Map(context.Background(), 0, []int(nil), func(_ context.Context, v int) (int, error) { return v, nil })
	require.NoError(t, err)
	require.Empty(t, out)
}
