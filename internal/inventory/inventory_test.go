package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("table"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
}

func TestPieces(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"KvK", 2},
		{"KQvK", 3},
		{"KQRvKR", 5},
		{"KPPPvKPP", 7},
		{"manifest", 0},
		{"QKvK", 0},
		{"KQvKvK", 0},
		{"KXvK", 0},
	}
	for _, tt := range tests {
		if got := Pieces(tt.name); got != tt.want {
			t.Errorf("Pieces(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestScan(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeFiles(t, dir1, "KQvK.rtbw", "KQvK.rtbz", "KRvK.rtbw", "README.txt")
	writeFiles(t, dir2, "KRvK.rtbz", "KQRvKR.rtbz")

	missing := filepath.Join(t.TempDir(), "missing")
	pathList := strings.Join([]string{dir1, missing, dir2}, string(os.PathListSeparator))

	inv, err := Scan(pathList)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(inv.Tables) != 3 {
		t.Fatalf("Scan() found %d tables, want 3: %+v", len(inv.Tables), inv.Tables)
	}
	if inv.Tables[0].Name != "KQvK" || !inv.Tables[0].Complete() {
		t.Errorf("Tables[0] = %+v, want complete KQvK", inv.Tables[0])
	}
	if inv.Tables[1].Name != "KRvK" || !inv.Tables[1].Complete() {
		t.Errorf("Tables[1] = %+v, want KRvK merged across directories", inv.Tables[1])
	}
	if inv.Tables[2].Name != "KQRvKR" || inv.Tables[2].WDL {
		t.Errorf("Tables[2] = %+v, want DTZ-only KQRvKR", inv.Tables[2])
	}

	// KQRvKR has no WDL file, so it does not raise the ceiling.
	if got := inv.MaxPieces(); got != 3 {
		t.Errorf("MaxPieces() = %d, want 3", got)
	}
	if got := inv.Bytes(); got != 5*5 {
		t.Errorf("Bytes() = %d, want 25", got)
	}
	if !inv.Has("KQvK.rtbz") || inv.Has("KQRvKR.rtbw") || inv.Has("KBvK.rtbw") {
		t.Error("Has() returned unexpected results")
	}
}

func TestScan_EmptyPath(t *testing.T) {
	inv, err := Scan("")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(inv.Tables) != 0 || inv.MaxPieces() != 0 {
		t.Errorf("Scan(\"\") = %+v, want empty", inv)
	}
}
