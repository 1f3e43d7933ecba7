package tiktok

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkPlan(t *testing.T) {
	tests := []struct {
		name      string
		totalSize int64
		chunkSize int64
		want      int
		lastLen   int64
	}{
		{"single partial chunk", 5, 10, 1, 5},
		{"exact single chunk", 10, 10, 1, 10},
		{"divisible", 30, 10, 3, 10},
		{"remainder", 25, 10, 3, 5},
		{"one byte", 1, 10_000_000, 1, 1},
		{"10MB chunks over 64MB", 64 << 20, 10_000_000, 7, (64 << 20) - 6*10_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkPlan(tt.totalSize, tt.chunkSize)
			require.Len(t, chunks, tt.want)
			require.Equal(t, tt.want, ChunkCount(tt.totalSize, tt.chunkSize))

			// The partition must cover [0, totalSize) exactly once.
			var next int64
			for i, c := range chunks {
				require.Equal(t, i, c.Index)
				require.Equal(t, next, c.Start)
				require.Greater(t, c.End, c.Start)
				if i < len(chunks)-1 {
					require.Equal(t, tt.chunkSize, c.Len())
				}
				next = c.End
			}
			require.Equal(t, tt.totalSize, next)
			require.Equal(t, tt.lastLen, chunks[len(chunks)-1].Len())
		})
	}
}

func TestChunkPlanDegenerate(t *testing.T) {
	require.Nil(t, ChunkPlan(0, 10))
	require.Nil(t, ChunkPlan(10, 0))
	require.Nil(t, ChunkPlan(-1, 10))
}
