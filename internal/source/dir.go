package source

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// DirSource replays image files of a directory in lexical order
type DirSource struct {
	files   []string
	next    int
	options Options
}

// NewDirSource lists image files of dir. Other files are ignored
func NewDirSource(dir string, options Options) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't list %s", dir)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return &DirSource{files: files, options: options}, nil
}

// Len returns number of frames in the sequence
func (source *DirSource) Len() int {
	return len(source.files)
}

// Next decodes next file. A file which can't be decoded is skipped after returning ErrReadFailed
func (source *DirSource) Next(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if source.next >= len(source.files) {
		return nil, ErrExhausted
	}
	path := source.files[source.next]
	source.next++
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrReadFailed, "%s: %v", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(ErrReadFailed, "%s: %v", path, err)
	}
	return prepare(img, source.options), nil
}

// Close implements Source
func (source *DirSource) Close() error {
	return nil
}
