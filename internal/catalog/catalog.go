// Package catalog discovers environment files under the servers directory.
package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/treykane/envssh/internal/apperr"
	"github.com/treykane/envssh/internal/model"
	"github.com/treykane/envssh/internal/util"
)

// Scan returns every file under root, at any depth, whose name ends in
// ".json". Directories and symlinks to directories are descended into and
// never listed themselves.
//
// Results follow filepath.WalkDir order: lexical within each directory, with
// a subdirectory's files appearing at the subdirectory's position. The order
// is stable for an unchanged tree but is not a global sort by name.
//
// The filesystem is read on every call.
func Scan(root string) ([]model.Environment, error) {
	st, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.CatalogError, "servers directory "+root+" does not exist", nil)
		}
		return nil, apperr.New(apperr.CatalogError, "cannot access servers directory "+root, err)
	}
	if !st.IsDir() {
		return nil, apperr.New(apperr.CatalogError, "servers directory "+root+" is not a directory", nil)
	}

	s := &scanner{visited: map[string]bool{}}
	if err := s.walk(root); err != nil {
		return nil, err
	}
	return s.found, nil
}

// Names returns the display names of envs in order.
func Names(envs []model.Environment) []string {
	out := make([]string, len(envs))
	for i, e := range envs {
		out[i] = e.Name
	}
	return out
}

type scanner struct {
	found []model.Environment
	// visited holds resolved directory paths so that symlink loops end.
	visited map[string]bool
}

func (s *scanner) walk(dir string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return apperr.New(apperr.CatalogError, "cannot resolve "+dir, err)
	}
	return filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return apperr.New(apperr.CatalogError, "cannot read "+path, err)
		}
		switch {
		case d.IsDir():
			if s.visited[path] {
				return filepath.SkipDir
			}
			s.visited[path] = true
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			target, serr := os.Stat(path)
			if serr != nil {
				// Dangling link.
				return nil
			}
			if target.IsDir() {
				return s.walk(path)
			}
			if target.Mode().IsRegular() {
				s.add(path, d.Name())
			}
			return nil
		case d.Type().IsRegular():
			s.add(path, d.Name())
		}
		return nil
	})
}

func (s *scanner) add(path, name string) {
	if !util.HasEnvironmentExt(name) {
		return
	}
	s.found = append(s.found, model.Environment{Name: util.TrimEnvironmentExt(name), Path: path})
}
