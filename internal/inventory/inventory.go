// Package inventory lists the Syzygy table files present under a tablebase
// path, the same path list the probing engine is initialized with.
package inventory

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File extensions of Syzygy tables.
const (
	WDLExt = ".rtbw"
	DTZExt = ".rtbz"
)

// Table is one material configuration, e.g. "KQvK".
type Table struct {
	Name   string
	Pieces int
	WDL    bool
	DTZ    bool
	Bytes  int64
}

// Complete reports whether both the WDL and DTZ files are present.
func (t Table) Complete() bool {
	return t.WDL && t.DTZ
}

// Inventory is the set of tables found under a path list.
type Inventory struct {
	Tables []Table
}

// MaxPieces returns the largest piece count among tables with a WDL file,
// which bounds what a WDL probe can answer.
func (inv *Inventory) MaxPieces() int {
	n := 0
	for _, t := range inv.Tables {
		if t.WDL && t.Pieces > n {
			n = t.Pieces
		}
	}
	return n
}

// Bytes returns the total size of all table files.
func (inv *Inventory) Bytes() int64 {
	var n int64
	for _, t := range inv.Tables {
		n += t.Bytes
	}
	return n
}

// Has reports whether a file with the given name, e.g. "KQvK.rtbw", exists.
func (inv *Inventory) Has(file string) bool {
	ext := filepath.Ext(file)
	name := strings.TrimSuffix(file, ext)
	for _, t := range inv.Tables {
		if t.Name != name {
			continue
		}
		switch ext {
		case WDLExt:
			return t.WDL
		case DTZExt:
			return t.DTZ
		}
	}
	return false
}

// Scan lists the tables found in every directory of pathList, separated by
// os.PathListSeparator. Directories that do not exist are skipped, matching
// the engine, which ignores them.
func Scan(pathList string) (*Inventory, error) {
	byName := make(map[string]*Table)

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext != WDLExt && ext != DTZExt {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ext)
			pieces := Pieces(name)
			if pieces == 0 {
				continue
			}

			t, ok := byName[name]
			if !ok {
				t = &Table{Name: name, Pieces: pieces}
				byName[name] = t
			}
			if ext == WDLExt {
				t.WDL = true
			} else {
				t.DTZ = true
			}
			if info, err := entry.Info(); err == nil {
				t.Bytes += info.Size()
			}
		}
	}

	inv := &Inventory{Tables: make([]Table, 0, len(byName))}
	for _, t := range byName {
		inv.Tables = append(inv.Tables, *t)
	}
	sort.Slice(inv.Tables, func(i, j int) bool {
		a, b := inv.Tables[i], inv.Tables[j]
		if a.Pieces != b.Pieces {
			return a.Pieces < b.Pieces
		}
		return a.Name < b.Name
	})
	return inv, nil
}

// Pieces counts the pieces in a material key such as "KQRvKR". It returns 0
// for names that are not material keys.
func Pieces(name string) int {
	sides := strings.Split(name, "v")
	if len(sides) != 2 {
		return 0
	}
	count := 0
	for _, side := range sides {
		if !strings.HasPrefix(side, "K") {
			return 0
		}
		for _, c := range side {
			if !strings.ContainsRune("KQRBNP", c) {
				return 0
			}
			count++
		}
	}
	return count
}
