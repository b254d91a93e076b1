package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistry(t *testing.T) {
	content := `{
		"stage1_features": ["AGE", "PTGENDER", "PTEDUCAT"],
		"stage2_features": ["AGE", "PTGENDER", "PTEDUCAT", "APOE4"],
		"stage3_features": ["AGE", "AB42_F", "AB42_F_missing"],
		"plasma_features_stage3": ["AB42_F"]
	}`
	path := filepath.Join(t.TempDir(), "features.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	registry, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, err := registry.Features(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 4 || names[3] != "APOE4" {
		t.Fatalf("unexpected stage 2 features: %v", names)
	}

	if !registry.IsPlasma("AB42_F") {
		t.Fatal("expected AB42_F to be plasma-marked")
	}
	if registry.IsPlasma("AGE") {
		t.Fatal("did not expect AGE to be plasma-marked")
	}
}

func TestLoadFailsWithoutStageList(t *testing.T) {
	content := `{
		"stage1_features": ["AGE"],
		"stage2_features": ["AGE", "APOE4"],
		"plasma_features_stage3": []
	}`
	path := filepath.Join(t.TempDir(), "features.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing stage 3 feature list")
	}
}

func TestFeaturesRejectsUnknownStage(t *testing.T) {
	registry, err := New([]string{"AGE"}, []string{"AGE"}, []string{"AGE"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := registry.Features(4); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
	if _, err := registry.Features(0); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestFeaturesReturnsCopy(t *testing.T) {
	registry, err := New([]string{"AGE", "PTGENDER"}, []string{"AGE"}, []string{"AGE"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, _ := registry.Features(1)
	names[0] = "mutated"

	again, _ := registry.Features(1)
	if again[0] != "AGE" {
		t.Fatalf("registry view mutated: %v", again)
	}
}
