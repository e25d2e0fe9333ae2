package utils

import (
	"archive/zip"
	"compress/gzip"
	"github.com/bodgit/sevenzip"
	"io"
	"os"
	"path/filepath"
)

func IsSize(filename string, size int64) bool {
	// open the file
	f, err := os.Open(filename)
	if err != nil {
		return false
	}
	defer f.Close()

	// get the file size
	fi, err := f.Stat()
	if err != nil {
		return false
	}

	// does the file size match?
	return fi.Size() == size
}

// LoadFile loads the given file and performs decompression if necessary.
func LoadFile(filename string) ([]byte, error) {
	// open the file
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// read the file into a byte slice
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	// try to assert the compression type from the file extension
	var decoder io.Reader
	switch ext := filepath.Ext(filename); ext {
	case ".gz":
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		decoder, err = gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
	case ".zip":
		// open the zip file
		zipReader, err := zip.NewReader(f, int64(len(data)))
		if err != nil {
			return nil, err
		}

		// read the first file in the zip file
		zipFile := zipReader.File[0]

		// open the file in the zip file
		decoder, err = zipFile.Open()
		if err != nil {
			return nil, err
		}
	case ".7z":
		r, err := sevenzip.NewReader(f, int64(len(data)))
		if err != nil {
			return nil, err
		}

		// read the first file in the archive
		zipFile := r.File[0]

		// open the file in the archive
		decoder, err = zipFile.Open()
		if err != nil {
			return nil, err
		}
	default:
		// .gba, .agb and .bin files are raw binaries
		return data, nil
	}

	// read the decompressed data into a byte slice
	return io.ReadAll(decoder)
}
