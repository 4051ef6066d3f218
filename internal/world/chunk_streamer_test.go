package world

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"spherecraft/internal/block"
	"spherecraft/internal/config"
	"spherecraft/internal/coords"
	"spherecraft/internal/meshing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestStreamCreatesNearestFirstUnderCap(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	obs := observerAt(8, surfaceY(w)+8, 8)
	center := coords.ChunkAt(obs)

	res := w.Update(obs).Stream
	if !res.Restreamed {
		t.Fatalf("first tick must stream")
	}
	if res.Created != 2 || res.Deferred != 25 {
		t.Fatalf("created %d deferred %d, want 2 and 25", res.Created, res.Deferred)
	}
	if w.ChunkAt(center) == nil {
		t.Errorf("observer chunk must be created first")
	}
	// Six face neighbours tie on distance; key order picks the -X one.
	if w.ChunkAt(center.Add(-1, 0, 0)) == nil {
		t.Errorf("expected west neighbour as the second chunk")
	}
	if w.Stats().Deferred != 25 {
		t.Errorf("stats deferred = %d", w.Stats().Deferred)
	}
}

func TestStreamDrainsDeferredWithoutMoving(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	obs := observerAt(8, surfaceY(w)+8, 8)

	ticks := 0
	for ; ticks < 20; ticks++ {
		res := w.Update(obs).Stream
		if res.Created > 2 {
			t.Fatalf("tick %d created %d chunks, cap is 2", ticks, res.Created)
		}
		if res.Deferred == 0 {
			break
		}
	}
	if ticks != 13 {
		t.Errorf("27 chunks at 2 per tick finished after %d extra ticks, want 13", ticks)
	}
	if n := w.Store().Len(); n != 27 {
		t.Fatalf("store has %d chunks, want 27", n)
	}

	if res := w.Update(obs).Stream; res.Restreamed {
		t.Errorf("observer and candidates unchanged; pass should be skipped")
	}
}

func TestStreamEvictsOutsideCandidates(t *testing.T) {
	w := newTestWorld(t, detailOnly(27))
	sy := surfaceY(w)
	w.Update(observerAt(8, sy+8, 8))
	old := w.ResidentChunks()

	res := w.Update(observerAt(8+5*ChunkSize, sy+8, 8)).Stream
	if res.Created != 27 || res.Evicted != 27 {
		t.Fatalf("created %d evicted %d, want 27 and 27", res.Created, res.Evicted)
	}
	for _, ch := range old {
		if ch.State() != StateEvicted {
			t.Errorf("old chunk %v state %v", ch.Key(), ch.State())
		}
	}

	res = w.Update(observerAt(8+6*ChunkSize, sy+8, 8)).Stream
	if res.Created != 9 || res.Evicted != 9 {
		t.Errorf("one-chunk move: created %d evicted %d, want 9 and 9", res.Created, res.Evicted)
	}
}

func TestStreamLosesEditsOnEviction(t *testing.T) {
	w := newTestWorld(t, detailOnly(27))
	sy := surfaceY(w)
	obs := observerAt(8, sy+8, 8)
	w.Update(obs)

	c := coords.ChunkAt(obs).Add(0, -1, 0)
	before := hashChunkBlocks(w.ChunkAt(c))
	o := c.Origin(1)
	if err := w.SetBlock(o.X+3, o.Y+15, o.Z+3, block.Air); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if hashChunkBlocks(w.ChunkAt(c)) == before {
		t.Fatalf("edit did not change the chunk")
	}

	w.Update(observerAt(8+10*ChunkSize, sy+8, 8))
	if w.ChunkAt(c) != nil {
		t.Fatalf("chunk not evicted")
	}
	w.Update(obs)
	if got := hashChunkBlocks(w.ChunkAt(c)); got != before {
		t.Errorf("regenerated chunk differs from fresh terrain")
	}
}

func TestStreamProxyRing(t *testing.T) {
	w := newTestWorld(t, config.Streaming{Radius: 1, MaxNewPerTick: 1000, LODFactor: 4, LODRadius: 2})
	obs := observerAt(8, surfaceY(w)+8, 8)
	center := coords.ChunkAt(obs)
	w.Update(obs)

	st := w.Stats()
	if st.Chunks != 27 {
		t.Errorf("detail chunks = %d, want 27", st.Chunks)
	}
	if st.Proxies == 0 {
		t.Fatalf("no proxies streamed")
	}

	s := w.Sphere()
	partial := 0
	for _, ch := range w.ResidentChunks() {
		if ch.LOD() == 1 {
			continue
		}
		k := ch.Key()
		if k.LOD != 4 {
			t.Fatalf("unexpected merge factor %d", k.LOD)
		}
		inDetail := true
		cell := [3]int{k.Coord.X, k.Coord.Y, k.Coord.Z}
		for i, c := range [3]int{center.X, center.Y, center.Z} {
			first := cell[i] * k.LOD
			if first+k.LOD-1 < c-1 || first > c+1 {
				inDetail = false
			}
		}
		ext := float64(k.Extent())
		lo := k.Origin().Vec()
		hi := lo.Add(mgl64.Vec3{ext, ext, ext})
		if !s.CrossesSurface(lo, hi) {
			t.Errorf("proxy %v does not cross the surface", k)
		}

		cut, ok := ch.Cutout()
		if ok != inDetail {
			t.Errorf("proxy %v: cutout %v, overlaps detail %v", k, ok, inDetail)
		}
		if !inDetail {
			if ch.IndexCount() != 6 {
				t.Errorf("proxy %v has %d indices, want 6", k, ch.IndexCount())
			}
			continue
		}
		partial++
		if cut.Center != center || cut.Radius != 1 {
			t.Errorf("proxy %v cutout %+v", k, cut)
		}
		if n := ch.IndexCount(); n%6 != 0 || n >= 6*16 {
			t.Errorf("partial proxy %v has %d indices", k, n)
		}
	}
	if partial == 0 {
		t.Fatalf("no partial proxies around the detail neighbourhood")
	}
}

// Near the pole every surface chunk column around the observer is drawn either
// by a detail chunk or by a proxy tile.
func TestStreamProxyRingLeavesNoGap(t *testing.T) {
	w := newTestWorld(t, config.Streaming{Radius: 1, MaxNewPerTick: 1000, LODFactor: 4, LODRadius: 2})
	obs := observerAt(8, surfaceY(w)+8, 8)
	center := coords.ChunkAt(obs)
	w.Update(obs)

	type rect struct{ x0, x1, z0, z1 float64 }
	var tiles []rect
	for _, ch := range w.ResidentChunks() {
		if ch.LOD() == 1 {
			continue
		}
		m := ch.Mesh()
		o := ch.Origin().Vec()
		for q := 0; q < m.VertexCount(); q += 4 {
			r := rect{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
			for i := q; i < q+4; i++ {
				x := o.X() + float64(m.Vertices[i*meshing.VertexStride])
				z := o.Z() + float64(m.Vertices[i*meshing.VertexStride+2])
				r.x0, r.x1 = math.Min(r.x0, x), math.Max(r.x1, x)
				r.z0, r.z1 = math.Min(r.z0, z), math.Max(r.z1, z)
			}
			tiles = append(tiles, r)
		}
	}

	for cx := -4; cx < 8; cx++ {
		for cz := -4; cz < 8; cz++ {
			if abs(cx-center.X) <= 1 && abs(cz-center.Z) <= 1 {
				continue
			}
			x, z := float64(cx*ChunkSize+8), float64(cz*ChunkSize+8)
			covered := false
			for _, r := range tiles {
				if x > r.x0 && x < r.x1 && z > r.z0 && z < r.z1 {
					covered = true
					break
				}
			}
			if !covered {
				t.Errorf("surface column (%d, %d) is neither detail nor proxy", cx, cz)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestStreamLogsActivity(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(config.DefaultPlanet(), Options{
		Streaming: detailOnly(27),
		Logger:    log.New(&buf, "", 0),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Update(observerAt(0, surfaceY(w), 0))
	if !strings.Contains(buf.String(), "created 27") {
		t.Errorf("log output %q", buf.String())
	}
}

func BenchmarkStreamMove(b *testing.B) {
	w := newTestWorld(b, detailOnly(27))
	sy := surfaceY(w)
	w.Update(observerAt(0, sy, 0))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Update(observerAt((i%2)*ChunkSize, sy, 0))
	}
}
