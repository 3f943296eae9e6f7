package ptr_test

import (
	"testing"

	"github.com/myrjola/homegym/internal/ptr"
)

func TestRef(t *testing.T) {
	weight := 70.5
	p := ptr.Ref(weight)
	if p == nil || *p != weight {
		t.Fatalf("Ref() = %v, want pointer to %v", p, weight)
	}
	weight = 80
	if *p == weight {
		t.Error("pointer should not follow changes to the original value")
	}
}

func TestDeref(t *testing.T) {
	if got := ptr.Deref(ptr.Ref(25), 0); got != 25 {
		t.Errorf("Deref() = %d, want 25", got)
	}
	var missing *float64
	if got := ptr.Deref(missing, 1.2); got != 1.2 {
		t.Errorf("Deref(nil) = %v, want 1.2", got)
	}
}
