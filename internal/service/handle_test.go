// SPDX-License-Identifier: Apache-2.0

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/acidburn0zzz/treesync/internal/mock"
)

func TestHandle(t *testing.T) {
	t.Run("get returns the live target", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		target := mock.NewMockSyncableService(ctrl)
		handle := NewHandle(target)

		svc, alive := handle.Get()
		require.True(t, alive)

		target.EXPECT().OnChangesApplied()
		svc.OnChangesApplied()
	})

	t.Run("release makes the target unreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		handle := NewHandle(mock.NewMockSyncableService(ctrl))

		handle.Release()

		_, alive := handle.Get()
		assert.False(t, alive)
	})
}
