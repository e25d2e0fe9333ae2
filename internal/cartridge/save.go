package cartridge

import (
	"os"
)

// Save represents a save file.
type Save struct {
	b    []byte   // the save file data
	f    *os.File // file that is written to when the emu shuts down
	Path string   // the path to the save file
}

// NewSave creates a new save file at the given path with the
// given size, or loads it if it already exists.
func NewSave(path string, size int) (*Save, error) {
	// does the sav file already exist?
	if _, err := os.Stat(path); err == nil {
		return LoadSave(path)
	}

	// create the file
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	s := Save{
		b:    make([]byte, size),
		f:    f,
		Path: path,
	}

	// return the save file
	return &s, nil
}

// LoadSave loads the save file at the given path.
func LoadSave(path string) (*Save, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	s := Save{
		b:    make([]byte, info.Size()),
		f:    f,
		Path: path,
	}

	// read the save file data
	if _, err := s.f.ReadAt(s.b, 0); err != nil {
		return nil, err
	}

	return &s, nil
}

// Bytes returns the save file data.
func (s *Save) Bytes() []byte {
	return s.b
}

// SetBytes sets the save file data.
func (s *Save) SetBytes(b []byte) {
	s.b = b
}

// Close flushes the save data and closes the file.
func (s *Save) Close() error {
	if s.f == nil {
		return nil
	}

	// write bytes to file
	if _, err := s.f.WriteAt(s.b, 0); err != nil {
		return err
	}
	return s.f.Close()
}
