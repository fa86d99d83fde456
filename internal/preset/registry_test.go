package preset_test

import (
	"errors"
	"testing"

	"github.com/dropDatabas3/proxima/internal/preset"
)

func twoPresets() []preset.Preset {
	return []preset.Preset{
		{
			Name:         "test-user",
			ClientID:     "test-client",
			RedirectURI:  "http://localhost:3000/callback",
			Subject:      "user-1234",
			CustomClaims: map[string]any{"department": "QA"},
		},
		{
			Name:        "admin-user",
			ClientID:    "test-client",
			RedirectURI: "http://localhost:3000/callback",
			Subject:     "admin-0001",
		},
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	ps := twoPresets()
	ps[1].Name = ps[0].Name
	if _, err := preset.NewRegistry(ps, ""); err == nil {
		t.Fatal("duplicate preset name accepted")
	}
}

func TestNewRegistryRejectsUnknownActive(t *testing.T) {
	if _, err := preset.NewRegistry(twoPresets(), "ghost"); err == nil {
		t.Fatal("unknown active preset accepted")
	}
}

func TestActiveAndActivate(t *testing.T) {
	r, err := preset.NewRegistry(twoPresets(), "test-user")
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	p, err := r.Active()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if p.Subject != "user-1234" {
		t.Fatalf("active subject = %s", p.Subject)
	}

	if err := r.Activate("admin-user"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	p, err = r.Active()
	if err != nil {
		t.Fatalf("active after swap: %v", err)
	}
	if p.Subject != "admin-0001" {
		t.Fatalf("subject after swap = %s", p.Subject)
	}

	if err := r.Activate("ghost"); !errors.Is(err, preset.ErrUnknownPreset) {
		t.Fatalf("want ErrUnknownPreset, got %v", err)
	}
}

func TestNoActivePreset(t *testing.T) {
	r, err := preset.NewRegistry(twoPresets(), "")
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := r.Active(); !errors.Is(err, preset.ErrNoActivePreset) {
		t.Fatalf("want ErrNoActivePreset, got %v", err)
	}
	if r.ActiveName() != "" {
		t.Fatalf("active name = %q", r.ActiveName())
	}
}

func TestByClientIDPrefersActive(t *testing.T) {
	r, err := preset.NewRegistry(twoPresets(), "admin-user")
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	p, err := r.ByClientID("test-client")
	if err != nil {
		t.Fatalf("by client id: %v", err)
	}
	if p.Name != "admin-user" {
		t.Fatalf("active preset did not win: %s", p.Name)
	}

	// Sin activo gana el orden de declaración.
	r2, err := preset.NewRegistry(twoPresets(), "")
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	p, err = r2.ByClientID("test-client")
	if err != nil {
		t.Fatalf("by client id: %v", err)
	}
	if p.Name != "test-user" {
		t.Fatalf("declaration order ignored: %s", p.Name)
	}

	if _, err := r.ByClientID("ghost-client"); !errors.Is(err, preset.ErrUnknownClient) {
		t.Fatalf("want ErrUnknownClient, got %v", err)
	}
	if _, err := r.ByClientID(""); !errors.Is(err, preset.ErrUnknownClient) {
		t.Fatalf("empty client: want ErrUnknownClient, got %v", err)
	}
}

func TestReturnedPresetsAreCopies(t *testing.T) {
	r, err := preset.NewRegistry(twoPresets(), "test-user")
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	p, _ := r.Active()
	p.CustomClaims["department"] = "changed"

	again, _ := r.Active()
	if again.CustomClaims["department"] != "QA" {
		t.Fatalf("registry state mutated through returned copy: %v", again.CustomClaims)
	}
}

func TestAllKeepsDeclarationOrder(t *testing.T) {
	r, err := preset.NewRegistry(twoPresets(), "")
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	all := r.All()
	if len(all) != 2 || all[0].Name != "test-user" || all[1].Name != "admin-user" {
		t.Fatalf("unexpected order: %+v", all)
	}
}
