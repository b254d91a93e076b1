package storage

import (
	"testing"

	"github.com/mirai-health/screening/pkg/common/models"
)

func TestCacheKeyStable(t *testing.T) {
	a := models.PatientAttributes{"AGE": 65.0, "PTGENDER": "Female", "PTEDUCAT": 18.0}
	b := models.PatientAttributes{"PTEDUCAT": 18.0, "AGE": 65.0, "PTGENDER": "Female"}

	if CacheKey(a) != CacheKey(b) {
		t.Fatal("expected identical keys for equal records")
	}
	if CacheKey(a) == "" {
		t.Fatal("expected non-empty key")
	}
}

func TestCacheKeyDistinguishesRecords(t *testing.T) {
	a := models.PatientAttributes{"AGE": 65.0, "PTGENDER": "Female", "PTEDUCAT": 18.0}
	b := models.PatientAttributes{"AGE": 66.0, "PTGENDER": "Female", "PTEDUCAT": 18.0}

	if CacheKey(a) == CacheKey(b) {
		t.Fatal("expected different keys for different records")
	}
}
