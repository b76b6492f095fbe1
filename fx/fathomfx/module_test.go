package fathomfx_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/fathom"
	"github.com/discochess/fathom/fx/fathomfx"
	"github.com/discochess/fathom/internal/tbprobe"
	"github.com/discochess/fathom/internal/tbprobe/memlib"
)

func TestModule(t *testing.T) {
	lib := memlib.New(5)
	lib.SetWDL(tbprobe.Args{White: 1 | 1<<9, Black: 1 << 7, Kings: 1 | 1<<7, Queens: 1 << 9, Turn: true}, tbprobe.Win)
	reg := prometheus.NewRegistry()

	var tb *fathom.Tablebase
	app := fxtest.New(t,
		fathomfx.Module,
		fx.Supply(fathomfx.Config{Path: "tables", CacheSize: 8, Registry: reg}),
		fx.Supply(zap.NewNop()),
		fx.Provide(func() fathom.Library { return lib }),
		fx.Populate(&tb),
	)
	app.RequireStart()

	pos, err := fathom.PositionFromFEN("8/8/8/8/8/8/1Q6/K6k w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN() error = %v", err)
	}
	got, err := tb.Prober().Probe(context.Background(), pos)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if got != fathom.Win {
		t.Errorf("Probe() = %v, want %v", got, fathom.Win)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "fathom_probes_total" {
			found = true
		}
	}
	if !found {
		t.Error("fathom_probes_total not registered")
	}

	app.RequireStop()

	if got := lib.Frees(); got != 1 {
		t.Errorf("Frees() = %d, want 1", got)
	}

	// The engine is released on stop, so a new tablebase can be opened.
	again, err := fathom.New("tables", fathom.WithLibrary(lib))
	if err != nil {
		t.Fatalf("New() after stop error = %v", err)
	}
	again.Close()
}

func TestModule_InitFailure(t *testing.T) {
	lib := memlib.New(5)
	lib.SetInitResult(false)

	app := fx.New(
		fathomfx.Module,
		fx.Supply(fathomfx.Config{Path: "missing"}),
		fx.Supply(zap.NewNop()),
		fx.Provide(func() fathom.Library { return lib }),
		fx.Invoke(func(*fathom.Tablebase) {}),
		fx.NopLogger,
	)
	if err := app.Err(); err == nil {
		t.Fatal("app.Err() = nil, want init failure")
	}
}
