// Package assets lists the technology logo images shown on the landing page.
package assets

import (
	"context"
	"os"
	"regexp"
	"sort"
)

// Lister returns the file names of the available logo images.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

var imageExt = regexp.MustCompile(`(?i)\.(svg|png|jpg|jpeg|webp)$`)

// IsImage reports whether name has one of the served image extensions.
func IsImage(name string) bool {
	return imageExt.MatchString(name)
}

// DirLister lists top-level image files of a local directory. It reads the directory on every
// call, so newly added files show up without a restart.
type DirLister struct {
	Dir string
}

func NewDirLister(dir string) *DirLister {
	return &DirLister{Dir: dir}
}

func (l *DirLister) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if IsImage(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
