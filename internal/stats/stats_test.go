package stats

import (
	"math"
	"testing"
)

func TestComputeEmpty(t *testing.T) {
	out := Compute(nil)
	if out.Count != 0 {
		t.Fatalf("count = %d", out.Count)
	}
	if out.Range != nil || out.Std != nil {
		t.Fatal("空输入 range/std 应为 nil")
	}
}

func TestComputeSingle(t *testing.T) {
	out := Compute([]float64{10})
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	if out.Range == nil || *out.Range != 0 {
		t.Fatalf("range = %v", out.Range)
	}
	if out.Std != nil {
		t.Fatal("单值 std 应为 nil")
	}
}

func TestComputeMulti(t *testing.T) {
	out := Compute([]float64{10, 20, 30})
	if out.Count != 3 {
		t.Fatalf("count = %d", out.Count)
	}
	if out.Range == nil || *out.Range != 20 {
		t.Fatalf("range = %v", out.Range)
	}
	if out.Std == nil {
		t.Fatal("std 为 nil")
	}
	if math.Abs(*out.Std-8.16496580927726) > 1e-9 {
		t.Fatalf("std = %f", *out.Std)
	}
}

func TestFloats(t *testing.T) {
	got := Floats([]int64{1, 2, 3})
	if len(got) != 3 || got[2] != 3.0 {
		t.Fatalf("Floats = %v", got)
	}
}

func TestPercentChange(t *testing.T) {
	pct, ok := PercentChange(200, 250)
	if !ok {
		t.Fatal("期望 ok")
	}
	if pct.String() != "25" {
		t.Fatalf("pct = %s", pct)
	}

	if _, ok := PercentChange(0, 10); ok {
		t.Fatal("first=0 应返回 !ok")
	}
}
