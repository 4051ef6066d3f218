package world

import (
	"errors"
	"math"
	"testing"

	"spherecraft/internal/block"
	"spherecraft/internal/config"
	"spherecraft/internal/coords"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestWorld(t testing.TB, st config.Streaming) *World {
	t.Helper()
	w, err := New(config.DefaultPlanet(), Options{Streaming: st})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

// detailOnly streams the 3x3x3 neighbourhood without proxies.
func detailOnly(perTick int) config.Streaming {
	return config.Streaming{Radius: 1, MaxNewPerTick: perTick}
}

// surfaceY is the first voxel layer above ground near the north pole.
func surfaceY(w *World) int {
	return int(math.Floor(w.Sphere().SurfaceRadius()))
}

func observerAt(x, y, z int) mgl64.Vec3 {
	return mgl64.Vec3{float64(x) + 0.5, float64(y) + 0.5, float64(z) + 0.5}
}

func TestNewRejectsInvalidPlanet(t *testing.T) {
	p := config.DefaultPlanet()
	p.Radius = -1
	if _, err := New(p, Options{}); !errors.Is(err, config.ErrInvalidRadius) {
		t.Fatalf("expected ErrInvalidRadius, got %v", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	sy := surfaceY(w)

	tests := []struct {
		x, y, z int
		typ     block.Type
	}{
		{0, sy, 0, block.Stone},
		{3, sy + 5, -7, block.Grass},
		{-1, sy + 14, -1, block.Dirt},
		{-17, sy - 1, 33, block.Air},
		{12, sy - 6, -40, block.Stone},
		{15, sy + 1, 16, block.Dirt},
	}
	for _, tt := range tests {
		if err := w.SetBlock(tt.x, tt.y, tt.z, tt.typ); err != nil {
			t.Fatalf("SetBlock(%d,%d,%d): %v", tt.x, tt.y, tt.z, err)
		}
		if got := w.GetBlock(tt.x, tt.y, tt.z); got != tt.typ {
			t.Errorf("GetBlock(%d,%d,%d) = %v, want %v", tt.x, tt.y, tt.z, got, tt.typ)
		}
	}
}

func TestSetBlockOutsideBuildRange(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	sy := surfaceY(w)
	floor := int(math.Floor(w.Sphere().CollisionRadius()))

	for _, y := range []int{sy + 20, sy + 200, floor - 2} {
		if err := w.SetBlock(0, y, 0, block.Stone); !errors.Is(err, ErrOutsideBuildRange) {
			t.Errorf("SetBlock at y=%d: expected ErrOutsideBuildRange, got %v", y, err)
		}
	}
	if n := w.Store().Len(); n != 0 {
		t.Errorf("rejected edits must not load chunks, store has %d", n)
	}
}

func TestSetBlockRejectsUnknownTypes(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	sy := surfaceY(w)

	for _, bt := range []block.Type{block.Type(4), block.Type(200)} {
		if err := w.SetBlock(0, sy+1, 0, bt); !errors.Is(err, ErrUnknownBlockType) {
			t.Errorf("SetBlock(%d): expected ErrUnknownBlockType, got %v", bt, err)
		}
	}
	if n := w.Store().Len(); n != 0 {
		t.Errorf("rejected edits must not load chunks, store has %d", n)
	}
	if got := w.GetBlock(0, sy+1, 0); got != block.Air {
		t.Errorf("voxel changed to %v", got)
	}

	for _, bt := range []block.Type{block.Stone, block.Air} {
		if err := w.SetBlock(0, sy+1, 0, bt); err != nil {
			t.Errorf("SetBlock(%v): %v", bt, err)
		}
	}
}

func TestGetBlockFallsBackToTerrain(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	sy := surfaceY(w)

	if got := w.GetBlock(5, sy+3, 5); got != block.Air {
		t.Errorf("above surface: got %v, want air", got)
	}
	if got := w.GetBlock(5, sy-1, 5); got != block.Grass {
		t.Errorf("grass shell: got %v, want grass", got)
	}
	if got := w.GetBlock(5, sy-10, 5); got != block.Dirt {
		t.Errorf("below shell: got %v, want dirt", got)
	}
	if w.Store().Len() != 0 {
		t.Errorf("queries must not load chunks")
	}
}

func TestNegativeCoordinatesResolveToOwningChunk(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	sy := surfaceY(w)

	if err := w.SetBlock(-1, sy+2, -16, block.Stone); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	c := coords.BlockPos{X: -1, Y: sy + 2, Z: -16}.Chunk()
	if c.X != -1 || c.Z != -1 {
		t.Fatalf("chunk of (-1,_,-16) = %v, want X=-1 Z=-1", c)
	}
	ch := w.ChunkAt(c)
	if ch == nil {
		t.Fatalf("owning chunk not loaded")
	}
	_, ly, _ := coords.BlockPos{Y: sy + 2}.Local()
	if got := ch.GetBlock(ChunkSize-1, ly, 0); got != block.Stone {
		t.Errorf("local (15,%d,0) = %v, want stone", ly, got)
	}
	if got := w.GetBlock(1, sy+2, 16); got != block.Air {
		t.Errorf("mirrored position must stay air, got %v", got)
	}
}

func TestSetBlockDirtiesBorderNeighbours(t *testing.T) {
	w := newTestWorld(t, detailOnly(27))
	sy := surfaceY(w)
	obs := observerAt(8, sy+8, 8)
	w.Update(obs)

	for _, ch := range w.ResidentChunks() {
		if ch.IsMeshDirty() {
			t.Fatalf("chunk %v still dirty after Update", ch.Key())
		}
	}

	center := coords.ChunkAt(obs)
	origin := center.Origin(1)
	// local x = 0 on the west border, y and z interior
	if err := w.SetBlock(origin.X, origin.Y+4, origin.Z+4, block.Stone); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	if !w.ChunkAt(center).IsMeshDirty() {
		t.Errorf("edited chunk not dirty")
	}
	if !w.ChunkAt(center.Add(-1, 0, 0)).IsMeshDirty() {
		t.Errorf("west neighbour not dirty")
	}
	for _, d := range [][3]int{{1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}} {
		if w.ChunkAt(center.Add(d[0], d[1], d[2])).IsMeshDirty() {
			t.Errorf("neighbour %v dirtied by interior edit", d)
		}
	}
}

func TestSetBlockCornerDirtiesThreeNeighbours(t *testing.T) {
	w := newTestWorld(t, detailOnly(27))
	sy := surfaceY(w)
	obs := observerAt(8, sy+8, 8)
	w.Update(obs)

	center := coords.ChunkAt(obs)
	o := center.Origin(1)
	// local (15, 0, 0); the top layer of this chunk is above the build range
	if err := w.SetBlock(o.X+ChunkSize-1, o.Y, o.Z, block.Dirt); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	for _, d := range [][3]int{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}} {
		if !w.ChunkAt(center.Add(d[0], d[1], d[2])).IsMeshDirty() {
			t.Errorf("neighbour %v not dirty", d)
		}
	}
}

func TestRegenerateMeshAfterEdit(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	sy := surfaceY(w)
	// The chunk starting at the surface radius is all air near the pole.
	c := coords.BlockPos{X: 0, Y: sy + 5, Z: 0}.Chunk()
	key := coords.ChunkKey{Coord: c, LOD: 1}
	o := c.Origin(1)

	if err := w.SetBlock(o.X+5, o.Y+5, o.Z+5, block.Stone); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	ch := w.Chunk(key)
	if !ch.IsMeshDirty() {
		t.Fatalf("mesh not dirty after SetBlock")
	}
	if !w.RegenerateMesh(key) {
		t.Fatalf("RegenerateMesh returned false")
	}
	if got := ch.IndexCount(); got != 36 {
		t.Errorf("single exposed block: got %d indices, want 36", got)
	}

	if err := w.SetBlock(o.X+5, o.Y+5, o.Z+5, block.Air); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if !ch.IsMeshDirty() {
		t.Fatalf("mesh not dirty after removal")
	}
	w.RegenerateMesh(key)
	if got := ch.IndexCount(); got != 0 {
		t.Errorf("all-air chunk: got %d indices, want 0", got)
	}
}

func TestMeshForRebuildsLazily(t *testing.T) {
	w := newTestWorld(t, detailOnly(2))
	sy := surfaceY(w)
	if err := w.SetBlock(2, sy+2, 2, block.Grass); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	key := coords.ChunkKey{Coord: coords.BlockPos{X: 2, Y: sy + 2, Z: 2}.Chunk(), LOD: 1}
	m, ok := w.MeshFor(key)
	if !ok {
		t.Fatalf("MeshFor: chunk missing")
	}
	if m.IndexCount() == 0 {
		t.Errorf("expected geometry for placed block")
	}
	if w.Chunk(key).IsMeshDirty() {
		t.Errorf("MeshFor must leave the mesh clean")
	}
	if _, ok := w.MeshFor(coords.ChunkKey{LOD: 1}); ok {
		t.Errorf("MeshFor on unloaded chunk must report false")
	}
}

func TestEditsInOneTickShareOneRebuild(t *testing.T) {
	w := newTestWorld(t, detailOnly(27))
	sy := surfaceY(w)
	obs := observerAt(8, sy+8, 8)
	w.Update(obs)

	o := coords.ChunkAt(obs).Origin(1)
	for i := 2; i < 8; i++ {
		if err := w.SetBlock(o.X+i, o.Y+3, o.Z+8, block.Stone); err != nil {
			t.Fatalf("SetBlock: %v", err)
		}
	}
	res := w.Update(obs)
	if res.Stream.Restreamed {
		t.Errorf("observer did not move; streaming should be skipped")
	}
	if res.MeshesRebuilt != 1 {
		t.Errorf("six interior edits in one chunk: rebuilt %d meshes, want 1", res.MeshesRebuilt)
	}
}

func TestStatsIsReadOnly(t *testing.T) {
	w := newTestWorld(t, detailOnly(27))
	sy := surfaceY(w)
	w.Update(observerAt(0, sy+4, 0))

	before := w.Stats()
	after := w.Stats()
	if before != after {
		t.Errorf("Stats changed between calls: %+v vs %+v", before, after)
	}
	if before.Chunks != 27 {
		t.Errorf("chunks = %d, want 27", before.Chunks)
	}
	if before.BuffersNotCreated != 27 {
		t.Errorf("buffersNotCreated = %d, want 27", before.BuffersNotCreated)
	}
	if before.WorldID != w.ID().String() {
		t.Errorf("world id mismatch")
	}
}
