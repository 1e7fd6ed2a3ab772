package queue

import (
	"reflect"
	"testing"
)

func TestPushBatch(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		batches  [][]float32
		want     []float32
	}{
		{"fits", 5, [][]float32{{1, 2}, {3}}, []float32{1, 2, 3}},
		{"exact", 3, [][]float32{{1, 2, 3}}, []float32{1, 2, 3}},
		{"batch longer than capacity", 3, [][]float32{{1, 2, 3, 4, 5}}, []float32{3, 4, 5}},
		{"evicts oldest", 4, [][]float32{{1, 2, 3}, {4, 5}}, []float32{2, 3, 4, 5}},
		{"oversized batch replaces everything", 2, [][]float32{{1}, {2, 3, 4}}, []float32{3, 4}},
		{"zero capacity", 0, [][]float32{{1, 2}, {3}}, []float32{}},
		{"empty batch", 2, [][]float32{{1, 2}, {}}, []float32{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewFloat(tt.capacity)
			for _, b := range tt.batches {
				q.PushBatch(b)
				if q.Len() > q.Cap() {
					t.Fatalf("Len() = %d exceeds Cap() = %d", q.Len(), q.Cap())
				}
			}
			if got := q.Values(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Values() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Every capacity and batch sequence must leave exactly the most recent
// min(cap, pushed) samples.
func TestPushBatchRetainsMostRecent(t *testing.T) {
	for capacity := 0; capacity <= 7; capacity++ {
		for batch := 0; batch <= 9; batch++ {
			q := NewFloat(capacity)
			var all []float32
			next := float32(0)
			for round := 0; round < 4; round++ {
				b := make([]float32, batch)
				for i := range b {
					b[i] = next
					next++
				}
				all = append(all, b...)
				q.PushBatch(b)

				keep := len(all)
				if capacity < keep {
					keep = capacity
				}
				if q.Len() != keep {
					t.Fatalf("cap %d batch %d: Len() = %d, want %d", capacity, batch, q.Len(), keep)
				}
				want := append([]float32{}, all[len(all)-keep:]...)
				if got := q.Values(); !reflect.DeepEqual(got, want) {
					t.Fatalf("cap %d batch %d: Values() = %v, want %v", capacity, batch, got, want)
				}
			}
		}
	}
}

func TestComplexQueue(t *testing.T) {
	q := NewComplex(2)
	q.PushBatch([]complex64{1 + 1i})
	q.PushBatch([]complex64{2 + 2i, 3 - 3i})

	var got []complex64
	q.Each(func(i int, v complex64) {
		got = append(got, v)
	})
	if want := []complex64{2 + 2i, 3 - 3i}; !reflect.DeepEqual(got, want) {
		t.Errorf("Each() = %v, want %v", got, want)
	}

	q.Reset()
	if q.Len() != 0 || q.Cap() != 2 {
		t.Errorf("after Reset: Len() = %d Cap() = %d", q.Len(), q.Cap())
	}
}

func TestNegativeCapacity(t *testing.T) {
	q := NewFloat(-4)
	q.PushBatch([]float32{1})
	if q.Cap() != 0 || q.Len() != 0 {
		t.Errorf("Cap() = %d Len() = %d, want 0 0", q.Cap(), q.Len())
	}
}
