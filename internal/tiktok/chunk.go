package tiktok

// Chunk is one contiguous byte range of the video file, covering
// [Start, End). Chunks are zero-indexed and back-to-back; the API
// reconstructs the file by concatenating them in index order.
type Chunk struct {
	Index int
	Start int64
	End   int64
}

// Len returns the chunk length in bytes.
func (c Chunk) Len() int64 { return c.End - c.Start }

// ChunkCount returns ceil(totalSize/chunkSize).
func ChunkCount(totalSize, chunkSize int64) int {
	return int((totalSize + chunkSize - 1) / chunkSize)
}

// ChunkPlan partitions [0, totalSize) into consecutive chunks of
// chunkSize bytes, the last one holding the remainder. Every byte is
// covered exactly once.
func ChunkPlan(totalSize, chunkSize int64) []Chunk {
	if totalSize <= 0 || chunkSize <= 0 {
		return nil
	}
	chunks := make([]Chunk, 0, ChunkCount(totalSize, chunkSize))
	for start := int64(0); start < totalSize; start += chunkSize {
		end := start + chunkSize
		if end > totalSize {
			end = totalSize
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Start: start, End: end})
	}
	return chunks
}
