package registry

import (
	"testing"

	"github.com/vovakirdan/tui-artillery/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterListCreate(t *testing.T) {
	Register("zz_stub_b", "second", func() Game { return &stubGame{id: "zz_stub_b"} })
	Register("zz_stub_a", "first", func() Game { return &stubGame{id: "zz_stub_a"} })

	if !Exists("zz_stub_a") || Exists("zz_missing") {
		t.Error("Exists() gave the wrong answer")
	}

	var found []GameInfo
	for _, info := range List() {
		if info.ID == "zz_stub_a" || info.ID == "zz_stub_b" {
			found = append(found, info)
		}
	}
	if len(found) != 2 || found[0].ID != "zz_stub_a" {
		t.Fatalf("List() = %+v, want both stubs sorted", found)
	}
	if found[0].Title != "Stub zz_stub_a" || found[0].Description != "first" {
		t.Errorf("info = %+v", found[0])
	}

	g, err := Create("zz_stub_b")
	if err != nil || g.ID() != "zz_stub_b" {
		t.Errorf("Create() = %v, %v", g, err)
	}
	if _, err := Create("zz_missing"); err == nil {
		t.Error("Create() of an unknown mode should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", "", func() Game { return &stubGame{id: "zz_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("zz_dup", "", func() Game { return &stubGame{id: "zz_dup"} })
}
