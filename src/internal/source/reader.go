// FILE: trackwisp/src/internal/source/reader.go
package source

import (
	"fmt"
	"io"
	"os"

	"trackwisp/src/internal/core"
)

// StdinName selects standard input in ReadEventFile
const StdinName = "-"

// ReadEvent reads one envelope from r, refusing anything over maxBytes
func ReadEvent(r io.Reader, maxBytes int64) ([]core.RawRecord, error) {
	if maxBytes <= 0 {
		maxBytes = core.DefaultRecordBufferLength
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("event exceeds %d bytes", maxBytes)
	}

	return DecodeEvent(data)
}

// ReadEventFile reads one envelope from a file path or "-" for stdin
func ReadEventFile(path string, maxBytes int64) ([]core.RawRecord, error) {
	if path == StdinName {
		return ReadEvent(os.Stdin, maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	defer f.Close()

	return ReadEvent(f, maxBytes)
}
