package roads2dem

import (
	"testing"
)

func TestUnionFindTransitivity(t *testing.T) {
	uf := NewUnionFind(6)
	uf.Union(0, 1)
	uf.Union(1, 2)
	uf.Union(4, 5)
	if uf.Find(0) != uf.Find(2) {
		t.Errorf("Elements 0 and 2 should share a root")
	}
	if uf.Find(0) == uf.Find(3) {
		t.Errorf("Elements 0 and 3 should not share a root")
	}
	if uf.Find(4) != uf.Find(5) {
		t.Errorf("Elements 4 and 5 should share a root")
	}
	if uf.Find(2) == uf.Find(4) {
		t.Errorf("Elements 2 and 4 should not share a root")
	}
}

func TestUnionFindChain(t *testing.T) {
	uf := NewUnionFind(100)
	for i := 0; i < 99; i++ {
		uf.Union(i, i+1)
	}
	root := uf.Find(0)
	for i := 1; i < 100; i++ {
		if uf.Find(i) != root {
			t.Errorf("Element %d should share root %d", i, root)
		}
	}
}
