// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package health

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinary(t *testing.T) {
	t.Run("reports unhealthy before being marked", func(t *testing.T) {
		var b Binary

		healthy, err := b.Healthy(context.Background())
		require.NoError(t, err)
		assert.False(t, healthy)
	})

	t.Run("reports healthy after being marked healthy", func(t *testing.T) {
		var b Binary
		b.MarkHealthy()

		healthy, err := b.Healthy(context.Background())
		require.NoError(t, err)
		assert.True(t, healthy)
	})

	t.Run("reports unhealthy after being marked unhealthy", func(t *testing.T) {
		var b Binary
		b.MarkHealthy()
		b.MarkUnhealthy()

		healthy, err := b.Healthy(context.Background())
		require.NoError(t, err)
		assert.False(t, healthy)
	})

	t.Run("tolerates concurrent state changes", func(t *testing.T) {
		var b Binary

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					b.MarkHealthy()
					return
				}
				b.MarkUnhealthy()
			}(i)
		}
		wg.Wait()

		_, err := b.Healthy(context.Background())
		assert.NoError(t, err)
	})
}

func TestAndMonitor(t *testing.T) {
	t.Run("reports healthy when every monitor is healthy", func(t *testing.T) {
		var a, b Binary
		a.MarkHealthy()
		b.MarkHealthy()

		healthy, err := And(&a, &b).Healthy(context.Background())
		require.NoError(t, err)
		assert.True(t, healthy)
	})

	t.Run("reports unhealthy when any monitor is unhealthy", func(t *testing.T) {
		var a, b Binary
		a.MarkHealthy()

		healthy, err := And(&a, &b).Healthy(context.Background())
		require.NoError(t, err)
		assert.False(t, healthy)
	})

	t.Run("fails fast on the first monitor error", func(t *testing.T) {
		failing := MonitorFunc(func(ctx context.Context) (bool, error) {
			return false, errors.New("probe failed")
		})
		notReached := MonitorFunc(func(ctx context.Context) (bool, error) {
			t.Fatal("monitor should not have been checked")
			return true, nil
		})

		healthy, err := And(failing, notReached).Healthy(context.Background())
		assert.Error(t, err)
		assert.False(t, healthy)
	})
}

func TestOrMonitor(t *testing.T) {
	t.Run("reports healthy when any monitor is healthy", func(t *testing.T) {
		var a, b Binary
		b.MarkHealthy()

		healthy, err := Or(&a, &b).Healthy(context.Background())
		require.NoError(t, err)
		assert.True(t, healthy)
	})

	t.Run("reports unhealthy when every monitor is unhealthy", func(t *testing.T) {
		var a, b Binary

		healthy, err := Or(&a, &b).Healthy(context.Background())
		require.NoError(t, err)
		assert.False(t, healthy)
	})

	t.Run("joins errors from all failing monitors", func(t *testing.T) {
		errA := errors.New("a failed")
		errB := errors.New("b failed")
		failA := MonitorFunc(func(ctx context.Context) (bool, error) {
			return false, errA
		})
		failB := MonitorFunc(func(ctx context.Context) (bool, error) {
			return false, errB
		})

		healthy, err := Or(failA, failB).Healthy(context.Background())
		assert.False(t, healthy)
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
	})
}

func TestMonitorFunc(t *testing.T) {
	t.Run("delegates to the wrapped function", func(t *testing.T) {
		m := MonitorFunc(func(ctx context.Context) (bool, error) {
			return true, nil
		})

		healthy, err := m.Healthy(context.Background())
		require.NoError(t, err)
		assert.True(t, healthy)
	})
}
