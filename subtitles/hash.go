package subtitles

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cue-cli/cue/filesystem"
)

// hashChunkSize is the number of bytes hashed from each end of the file.
const hashChunkSize = 65536

// ErrFileTooSmall means the file is shorter than the two chunks the hash is
// defined over; such files cannot be matched by hash, only by name.
var ErrFileTooSmall = errors.New("file too small for a movie hash")

// MovieHash computes the OpenSubtitles hash of a media file: the file size
// plus the little-endian uint64 sum of the first and last 64 KiB, truncated
// to 64 bits and rendered as 16 hex digits.
func MovieHash(path string) (string, error) {
	file, err := filesystem.API().Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	size := info.Size()
	if size < hashChunkSize*2 {
		return "", ErrFileTooSmall
	}

	hash := uint64(size)

	sum, err := sumChunk(file, 0)
	if err != nil {
		return "", err
	}
	hash += sum

	sum, err = sumChunk(file, size-hashChunkSize)
	if err != nil {
		return "", err
	}
	hash += sum

	return fmt.Sprintf("%016x", hash), nil
}

// sumChunk adds up one 64 KiB chunk of the file as little-endian uint64 words.
func sumChunk(file io.ReadSeeker, offset int64) (uint64, error) {
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}

	buffer := make([]byte, hashChunkSize)
	if _, err := io.ReadFull(file, buffer); err != nil {
		return 0, err
	}

	var sum uint64
	for i := 0; i < hashChunkSize; i += 8 {
		sum += binary.LittleEndian.Uint64(buffer[i:])
	}
	return sum, nil
}
