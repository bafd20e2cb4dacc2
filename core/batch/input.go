package batch

import (
	"io"
	"os"

	"commission-calc/internal/errors"
)

// FileInput is a batch file that existed when it was opened
type FileInput struct {
	Path string
}

// OpenFile validates that path names a regular file. Anything else is a
// configuration error; the file is not read until Open.
func OpenFile(path string) (*FileInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Config("input is not a valid file", err).WithContext("path", path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Newf(errors.TypeConfig, "%q is not a valid file", path).WithContext("path", path)
	}
	return &FileInput{Path: path}, nil
}

// Open opens the file for reading
func (f *FileInput) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, errors.Config("cannot open input file", err).WithContext("path", f.Path)
	}
	return file, nil
}
