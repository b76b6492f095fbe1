// Package tbprobe is the raw binding to the Fathom Syzygy probing engine.
//
// It declares the native entry points behind the Library interface, the bit
// layout of the packed probe result word, and performs the two precondition
// checks that Fathom's static inline wrappers would otherwise perform. Binding
// additionally rejects a root probe whose results buffer is shorter than
// MaxMoves, since the engine writes up to MaxMoves words unchecked.
package tbprobe

// Castling rights bits.
const (
	CastlingK uint32 = 1
	CastlingQ uint32 = 2
	Castlingk uint32 = 4
	Castlingq uint32 = 8
)

// WDL codes.
const (
	Loss        uint32 = 0
	BlessedLoss uint32 = 1
	Draw        uint32 = 2
	CursedWin   uint32 = 3
	Win         uint32 = 4
)

// Promotion codes.
const (
	PromotesNone   uint32 = 0
	PromotesQueen  uint32 = 1
	PromotesRook   uint32 = 2
	PromotesBishop uint32 = 3
	PromotesKnight uint32 = 4
)

// Result word layout.
const (
	ResultWDLMask      uint32 = 0x0000000F
	ResultToMask       uint32 = 0x000003F0
	ResultFromMask     uint32 = 0x0000FC00
	ResultEPMask       uint32 = 0x00070000
	ResultPromotesMask uint32 = 0x00080000
	ResultDTZMask      uint32 = 0xFFF00000

	ResultWDLShift      = 0
	ResultToShift       = 4
	ResultFromShift     = 10
	ResultEPShift       = 16
	ResultPromotesShift = 19
	ResultDTZShift      = 20
)

// Sentinel result words.
const (
	ResultCheckmate uint32 = 0x00000004
	ResultStalemate uint32 = 0x00000002
	ResultFailed    uint32 = 0xFFFFFFFF
)

// MaxMoves is the size of the per-move results buffer accepted by the root
// probe, including the ResultFailed terminator.
const MaxMoves = 192 + 1

// Args carries the position fields passed across the native boundary.
type Args struct {
	White, Black                                  uint64
	Kings, Queens, Rooks, Bishops, Knights, Pawns uint64

	Rule50   uint32
	Castling uint32
	EP       uint32
	Turn     bool // true means white to move
}

// Library is the set of symbols exported by the native engine.
//
// ProbeWDL and ProbeRoot correspond to tb_probe_wdl_impl and
// tb_probe_root_impl, which take no castling argument; ProbeWDL also takes no
// rule-50 counter. Callers go through Binding, which enforces both.
type Library interface {
	Init(path string) bool
	Free()
	Largest() uint32
	ProbeWDL(a *Args) uint32
	// ProbeRoot fills results, when non-nil, with one word per legal move
	// followed by ResultFailed.
	ProbeRoot(a *Args, results []uint32) uint32
}

// Binding wraps a Library and rejects arguments the native implementation
// functions do not accept.
type Binding struct {
	lib Library
}

// New returns a binding over lib.
func New(lib Library) *Binding {
	return &Binding{lib: lib}
}

// Init loads the tables found under path.
func (b *Binding) Init(path string) bool {
	return b.lib.Init(path)
}

// Free releases all loaded tables.
func (b *Binding) Free() {
	b.lib.Free()
}

// Largest returns the largest piece count the loaded tables cover.
func (b *Binding) Largest() uint32 {
	return b.lib.Largest()
}

// ProbeWDL probes the WDL table. Positions with castling rights or a nonzero
// rule-50 counter fail without reaching the engine.
func (b *Binding) ProbeWDL(a *Args) uint32 {
	if a.Castling != 0 {
		return ResultFailed
	}
	if a.Rule50 != 0 {
		return ResultFailed
	}
	return b.lib.ProbeWDL(a)
}

// ProbeRoot probes the DTZ table at the root. Positions with castling rights
// fail without reaching the engine. When results is non-nil it must hold at
// least MaxMoves entries.
func (b *Binding) ProbeRoot(a *Args, results []uint32) uint32 {
	if a.Castling != 0 {
		return ResultFailed
	}
	if results != nil && len(results) < MaxMoves {
		return ResultFailed
	}
	return b.lib.ProbeRoot(a, results)
}
