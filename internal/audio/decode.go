package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat is returned for files that are not wav, mp3 or flac.
var ErrUnsupportedFormat = errors.New("audio: unsupported file type")

// Extensions lists the decodable file extensions.
var Extensions = []string{".wav", ".mp3", ".flac"}

// Patterns returns glob patterns for Extensions, for file dialogs.
func Patterns() []string {
	out := make([]string, len(Extensions))
	for i, ext := range Extensions {
		out[i] = "*" + ext
	}
	return out
}

// Decode picks a decoder by the extension of name and decodes rc.
func Decode(name string, rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Open decodes the file at path. Closing the returned streamer also closes
// the file.
func Open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s, format, err := Decode(path, f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &fileStream{StreamSeekCloser: s, f: f}, format, nil
}

type fileStream struct {
	beep.StreamSeekCloser
	f *os.File
}

func (s *fileStream) Close() error {
	err := s.StreamSeekCloser.Close()
	if ferr := s.f.Close(); ferr != nil && !errors.Is(ferr, os.ErrClosed) && err == nil {
		err = ferr
	}
	return err
}
