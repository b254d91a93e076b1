package classifier

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mirai-health/screening/pkg/screening/features"
	"github.com/mirai-health/screening/pkg/screening/schema"
)

func testArtifact() Artifact {
	var a Artifact
	a.Model.Type = "classification"
	a.Model.Algorithm = "logistic_regression"
	a.Model.FeatureNames = []string{"AGE", "PTGENDER", "PTEDUCAT"}
	a.Model.Encoders = map[string]map[string]float64{
		"PTGENDER": {"Male": 0, "Female": 1},
	}
	a.Model.Imputations = map[string]float64{"PTEDUCAT": 14.0}
	a.Model.Weights.Bias = -1.0
	a.Model.Weights.Coefficients = []float64{0.05, -0.2, -0.1}
	return a
}

func vectorOf(t *testing.T, pairs ...interface{}) features.Vector {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("vectorOf wants name/value pairs")
	}
	entries := make([]features.Entry, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		entries = append(entries, features.Entry{Name: pairs[i].(string), Value: pairs[i+1]})
	}
	return features.NewVector(entries)
}

func TestNewLogisticValidatesShape(t *testing.T) {
	a := testArtifact()
	a.Model.Weights.Coefficients = []float64{0.05}
	if _, err := NewLogistic(a); err == nil {
		t.Fatal("expected error for coefficient/feature count mismatch")
	}

	a = testArtifact()
	a.Model.FeatureNames = nil
	a.Model.Weights.Coefficients = nil
	if _, err := NewLogistic(a); err == nil {
		t.Fatal("expected error for empty feature names")
	}
}

func TestScoreComputesSigmoid(t *testing.T) {
	model, err := NewLogistic(testArtifact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec := vectorOf(t, "AGE", 65.0, "PTGENDER", "Female", "PTEDUCAT", 18.0)
	got, err := model.Score(vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := -1.0
	sum += 0.05 * 65.0
	sum += -0.2 * 1.0
	sum += -0.1 * 18.0
	want := 1 / (1 + math.Exp(-sum))
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got < 0 || got > 1 {
		t.Fatalf("probability out of range: %v", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	model, err := NewLogistic(testArtifact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec := vectorOf(t, "AGE", 72.0, "PTGENDER", "Male", "PTEDUCAT", 14.0)
	first, err := model.Score(vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := model.Score(vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Float64bits(first) != math.Float64bits(second) {
		t.Fatalf("scores differ across identical calls: %v vs %v", first, second)
	}
}

func TestScoreRejectsShapeMismatch(t *testing.T) {
	model, err := NewLogistic(testArtifact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := model.Score(vectorOf(t, "AGE", 65.0)); err == nil {
		t.Fatal("expected error for short vector")
	}

	wrongOrder := vectorOf(t, "PTGENDER", "Male", "AGE", 65.0, "PTEDUCAT", 12.0)
	if _, err := model.Score(wrongOrder); err == nil {
		t.Fatal("expected error for column order mismatch")
	}
}

func TestScoreImputesMissingValues(t *testing.T) {
	model, err := NewLogistic(testArtifact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// nil and NaN both resolve to the fitted imputation value.
	nilVec := vectorOf(t, "AGE", 65.0, "PTGENDER", "Male", "PTEDUCAT", nil)
	nanVec := vectorOf(t, "AGE", 65.0, "PTGENDER", "Male", "PTEDUCAT", math.NaN())
	filled := vectorOf(t, "AGE", 65.0, "PTGENDER", "Male", "PTEDUCAT", 14.0)

	fromNil, err := model.Score(nilVec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromNaN, err := model.Score(nanVec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromFill, err := model.Score(filled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromNil != fromFill || fromNaN != fromFill {
		t.Fatalf("imputation mismatch: nil=%v nan=%v filled=%v", fromNil, fromNaN, fromFill)
	}
}

func TestScoreFailsWithoutImputation(t *testing.T) {
	model, err := NewLogistic(testArtifact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec := vectorOf(t, "AGE", nil, "PTGENDER", "Male", "PTEDUCAT", 12.0)
	if _, err := model.Score(vec); err == nil {
		t.Fatal("expected error for absent value with no imputation")
	}
}

func TestScoreRejectsUnmappedCategorical(t *testing.T) {
	model, err := NewLogistic(testArtifact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec := vectorOf(t, "AGE", 65.0, "PTGENDER", "Unknown", "PTEDUCAT", 12.0)
	if _, err := model.Score(vec); err == nil {
		t.Fatal("expected error for value outside the encoder")
	}
}

func writeArtifact(t *testing.T, dir, name, featureName string) {
	t.Helper()
	content := `{"model": {"type": "classification", "algorithm": "logistic_regression",
		"feature_names": ["` + featureName + `"],
		"weights": {"bias": 0, "coefficients": [1.0]}}}`
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "stage1_model.json", "AGE")
	writeArtifact(t, dir, "stage2_model.json", "APOE4")
	writeArtifact(t, dir, "stage3_model.json", "NfL_Q")

	set, err := LoadSet(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prob, err := set.Score(1, vectorOf(t, "AGE", 0.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prob != 0.5 {
		t.Fatalf("expected 0.5 for zero logit, got %v", prob)
	}
}

func TestLoadSetFailsFastOnMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "stage1_model.json", "AGE")
	writeArtifact(t, dir, "stage2_model.json", "APOE4")

	if _, err := LoadSet(dir); err == nil {
		t.Fatal("expected error for missing stage 3 artifact")
	}
}

func TestSetRejectsUnknownStage(t *testing.T) {
	set := NewSet(map[int]Classifier{})
	if _, err := set.Score(4, features.NewVector(nil)); !errors.Is(err, schema.ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}
