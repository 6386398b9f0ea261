package builder

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ModelFileSuffixes are the extensions recognized as model files.
var ModelFileSuffixes = []string{".metaed.yaml", ".metaed.yml"}

// FindModelFiles returns path itself if it is a file, or every model file below
// it sorted by path.
func FindModelFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isModelFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func isModelFile(path string) bool {
	for _, suffix := range ModelFileSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
