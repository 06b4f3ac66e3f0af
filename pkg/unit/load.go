// SPDX-License-Identifier: MPL-2.0

package unit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// DefaultInclude selects the source files of a game directory.
	DefaultInclude = []string{"**/*.quest.cue"}

	// ErrNoSources is returned when discovery finds nothing to load.
	ErrNoSources = errors.New("no source files found")
	// ErrGameMismatch is the sentinel wrapped by GameMismatchError.
	ErrGameMismatch = errors.New("source files name different games")
)

type (
	// Bundle is every unit of one game, in file order.
	Bundle struct {
		Game  string
		Files []string
		Units []Unit
	}

	// GameMismatchError is returned when two files of one directory
	// belong to different games.
	GameMismatchError struct {
		Want, Got string
		File      string
	}
)

// Error implements the error interface.
func (e *GameMismatchError) Error() string {
	return fmt.Sprintf("%s belongs to game %q, expected %q", e.File, e.Got, e.Want)
}

// Unwrap returns ErrGameMismatch.
func (e *GameMismatchError) Unwrap() error { return ErrGameMismatch }

// Discover returns the files under root matching any include pattern and no
// exclude pattern, as root-joined paths in lexical order. Patterns use
// doublestar syntax relative to root.
func Discover(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, pat := range slices.Concat(include, exclude) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var matches []string
	for _, pat := range include {
		found, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q in %s: %w", pat, root, err)
		}
		for _, rel := range found {
			if seen[rel] || excluded(rel, exclude) {
				continue
			}
			seen[rel] = true
			matches = append(matches, rel)
		}
	}
	slices.Sort(matches)

	out := make([]string, len(matches))
	for i, rel := range matches {
		out[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	return out, nil
}

// Matches reports whether rel (slash-separated, relative to the source root)
// would be selected by Discover.
func Matches(rel string, include, exclude []string) bool {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if excluded(rel, exclude) {
		return false
	}
	for _, pat := range include {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func excluded(rel string, exclude []string) bool {
	for _, pat := range exclude {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Load discovers and parses every source file under root and concatenates
// their units. All files must name the same game.
func Load(root string, include, exclude []string) (*Bundle, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s: %w", root, fs.ErrInvalid)
	}

	files, err := Discover(root, include, exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", root, ErrNoSources)
	}

	b := &Bundle{Files: files}
	for _, f := range files {
		src, err := ParseFile(f)
		if err != nil {
			return nil, err
		}
		if b.Game == "" {
			b.Game = src.Game
		} else if src.Game != b.Game {
			return nil, &GameMismatchError{Want: b.Game, Got: src.Game, File: f}
		}
		b.Units = append(b.Units, src.Units...)
	}
	return b, nil
}
