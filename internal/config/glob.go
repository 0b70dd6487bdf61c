package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlobs expands file paths, glob patterns and directories into a sorted
// unique list of files.
//
// Glob patterns may use ** to match any number of directories. Directories
// are walked recursively and contribute files whose base name matches one of
// include. Files whose base name starts with skipPrefix are generated copies
// and are always left out, even when named explicitly. An empty skipPrefix
// disables the filter.
func ExpandGlobs(patterns, include []string, skipPrefix string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no file patterns provided")
	}

	files := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, pattern := range patterns {
		if hasGlobMeta(pattern) {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no matches for pattern %q", pattern)
			}
			for _, match := range matches {
				if isGenerated(match, skipPrefix) {
					continue
				}
				add(match)
			}
			continue
		}

		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !isGenerated(pattern, skipPrefix) {
				add(pattern)
			}
			continue
		}

		walked, err := walkDir(pattern, include, skipPrefix)
		if err != nil {
			return nil, err
		}
		for _, path := range walked {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// FindGenerated returns every file under root whose base name is prefix
// followed by a name matching one of include, i.e. the copies written by
// strip. An empty include matches any name.
func FindGenerated(root, prefix string, include []string) ([]string, error) {
	if prefix == "" {
		return nil, fmt.Errorf("empty prefix would match every file")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), prefix) {
			return nil
		}
		ok, err := matchAny(include, strings.TrimPrefix(d.Name(), prefix))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func walkDir(root string, include []string, skipPrefix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isGenerated(path, skipPrefix) {
			return nil
		}
		ok, err := matchAny(include, d.Name())
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func matchAny(patterns []string, name string) (bool, error) {
	if len(patterns) == 0 {
		return true, nil
	}
	for _, p := range patterns {
		ok, err := filepath.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func isGenerated(path, prefix string) bool {
	return prefix != "" && strings.HasPrefix(filepath.Base(path), prefix)
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
