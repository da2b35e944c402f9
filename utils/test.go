package utils

import (
	"math"
	"testing"
)

func AssertTrue(t *testing.T, a bool) {
	if !a {
		t.Fatalf("Expected true, got false")
	}
}

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	if a != b {
		t.Fatalf("Expected equal: %v != %v\n", a, b)
	}
}

func AssertClose(t *testing.T, a float64, b float64, eps float64) {
	if math.Abs(a-b) > eps {
		t.Fatalf("Expected close (eps=%v): %v != %v\n", eps, a, b)
	}
}
