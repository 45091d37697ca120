package juggle

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// CountSink receives count every time it changes
type CountSink interface {
	WriteCount(count int) error
}

// NopSink discards counts
type NopSink struct{}

// WriteCount implements CountSink
func (NopSink) WriteCount(int) error { return nil }

// FileSink keeps count as plain text in a file (e.g. for broadcast overlay software).
// The file is rewritten in full on every write
type FileSink struct {
	path string
}

// NewFileSink creates sink and initializes file with 0
func NewFileSink(path string) (*FileSink, error) {
	sink := &FileSink{path: path}
	if err := sink.WriteCount(0); err != nil {
		return nil, errors.Wrap(err, "Can't initialize count file")
	}
	return sink, nil
}

// Path returns path to the count file
func (sink *FileSink) Path() string {
	return sink.path
}

// WriteCount replaces file content with the count. Readers never see a partially written value
func (sink *FileSink) WriteCount(count int) error {
	dir := filepath.Dir(sink.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(sink.path)+".*")
	if err != nil {
		return errors.Wrapf(err, "Can't create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	err = tmp.Chmod(0o644)
	if err == nil {
		_, err = tmp.WriteString(strconv.Itoa(count))
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "Can't write count to %s", tmpName)
	}
	if err := os.Rename(tmpName, sink.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "Can't replace %s", sink.path)
	}
	return nil
}
