package metrics

import (
	"reflect"
	"testing"
)

func TestRing_Eviction(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		pushes   int
		want     []int
	}{
		{"empty", 3, 0, []int{}},
		{"partial", 5, 3, []int{0, 1, 2}},
		{"exactly full", 3, 3, []int{0, 1, 2}},
		{"wrapped once", 3, 4, []int{1, 2, 3}},
		{"wrapped many", 4, 11, []int{7, 8, 9, 10}},
		{"capacity one", 1, 5, []int{4}},
		{"zero capacity raised", 0, 2, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing[int](tt.capacity)
			for i := 0; i < tt.pushes; i++ {
				r.Push(i)
			}

			if got := r.Slice(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Slice() = %v, want %v", got, tt.want)
			}
			if r.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.want))
			}

			var walked []int
			r.Do(func(v int) { walked = append(walked, v) })
			if len(walked) != len(tt.want) || (len(walked) > 0 && !reflect.DeepEqual(walked, tt.want)) {
				t.Errorf("Do() visited %v, want %v", walked, tt.want)
			}

			last, ok := r.Last()
			if ok != (len(tt.want) > 0) {
				t.Fatalf("Last() ok = %v", ok)
			}
			if ok && last != tt.want[len(tt.want)-1] {
				t.Errorf("Last() = %d, want %d", last, tt.want[len(tt.want)-1])
			}
		})
	}
}

func TestRing_NeverExceedsCapacity(t *testing.T) {
	r := NewRing[float64](16)
	for i := 0; i < 1000; i++ {
		r.Push(float64(i))
		if r.Len() > r.Cap() {
			t.Fatalf("push %d: len %d exceeds capacity %d", i, r.Len(), r.Cap())
		}
	}
}

func TestRing_SliceIsCopy(t *testing.T) {
	r := NewRing[int](2)
	r.Push(1)
	out := r.Slice()
	out[0] = 99

	if got, _ := r.Last(); got != 1 {
		t.Errorf("mutating Slice() result changed the ring: %d", got)
	}
}

func TestRing_Clear(t *testing.T) {
	r := NewRing[int](3)
	for i := 0; i < 5; i++ {
		r.Push(i)
	}
	r.Clear()

	if r.Len() != 0 || len(r.Slice()) != 0 {
		t.Errorf("expected empty ring after Clear, got %v", r.Slice())
	}
	if _, ok := r.Last(); ok {
		t.Error("Last() should report empty after Clear")
	}

	r.Push(7)
	if !reflect.DeepEqual(r.Slice(), []int{7}) {
		t.Errorf("unexpected contents after reuse: %v", r.Slice())
	}
}
