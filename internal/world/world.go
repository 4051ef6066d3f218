package world

import (
	"errors"
	"io"
	"log"

	"spherecraft/internal/block"
	"spherecraft/internal/config"
	"spherecraft/internal/coords"
	"spherecraft/internal/meshing"
	"spherecraft/internal/profiling"
	"spherecraft/internal/spheremath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ErrOutsideBuildRange is returned by SetBlock for positions outside the
// editable shell. The world is unchanged.
var ErrOutsideBuildRange = errors.New("position outside build range")

// ErrUnknownBlockType is returned by SetBlock for types that are neither air
// nor placeable.
var ErrUnknownBlockType = errors.New("unknown block type")

// Options carries the optional collaborators of a World.
type Options struct {
	Streaming config.Streaming
	// Logger receives streaming messages; nil discards them.
	Logger *log.Logger
	// Profiler receives per-tick timings; nil disables profiling.
	Profiler *profiling.Profiler
}

// World owns the loaded chunks of one planet and the streaming state around
// the observer. It is driven from a single goroutine.
type World struct {
	id       uuid.UUID
	sphere   spheremath.Sphere
	store    *ChunkStore
	streamer *ChunkStreamer
	rebaser  *coords.Rebaser

	observer mgl64.Vec3
	tick     uint64

	prof *profiling.Profiler
	log  *log.Logger
}

// New creates an empty world for a planet. Nothing is loaded until the first Update.
func New(p config.Planet, opts Options) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.Streaming == (config.Streaming{}) {
		opts.Streaming = config.DefaultStreaming()
	}
	if err := opts.Streaming.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := spheremath.New(p)
	store := NewChunkStore()
	return &World{
		id:       uuid.New(),
		sphere:   s,
		store:    store,
		streamer: NewChunkStreamer(store, s, opts.Streaming, opts.Profiler, logger),
		rebaser:  coords.NewRebaser(p.Radius, coords.ChunkCoord{}),
		prof:     opts.Profiler,
		log:      logger,
	}, nil
}

// ID identifies this world instance.
func (w *World) ID() uuid.UUID { return w.id }

// Sphere returns the planet geometry every subsystem shares.
func (w *World) Sphere() spheremath.Sphere { return w.sphere }

// Rebaser returns the observer-relative coordinate frame.
func (w *World) Rebaser() *coords.Rebaser { return w.rebaser }

// Observer returns the absolute observer position of the last Update.
func (w *World) Observer() mgl64.Vec3 { return w.observer }

// ModCount changes whenever a chunk is added to or evicted from the world.
func (w *World) ModCount() uint64 { return w.store.GetModCount() }

// Store exposes the chunk map for read-only collaborators.
func (w *World) Store() *ChunkStore { return w.store }

// UpdateResult summarises one tick.
type UpdateResult struct {
	Stream        StreamResult
	MeshesRebuilt int
}

// Update runs one tick: rebase on the observer's chunk, stream chunks (skipped
// when the observer chunk is unchanged and nothing is pending), then rebuild
// every dirty mesh. GPU uploads are left to the renderer.
func (w *World) Update(observer mgl64.Vec3) UpdateResult {
	defer w.prof.Track("world.Update")()
	w.tick++
	w.observer = observer

	center := coords.ChunkAt(observer)
	w.rebaser.SetOrigin(center)

	var res UpdateResult
	res.Stream = w.streamer.Stream(center)
	res.MeshesRebuilt = w.rebuildDirtyMeshes()
	return res
}

func (w *World) rebuildDirtyMeshes() int {
	defer w.prof.Track("world.rebuildMeshes")()
	n := 0
	for _, ch := range w.store.AllChunks() {
		if ch.IsMeshDirty() {
			ch.RegenerateMesh(w.sphere)
			n++
		}
	}
	return n
}

// GetBlock returns the block at absolute voxel coordinates. Voxels of chunks
// that are not loaded report what terrain generation would produce there.
func (w *World) GetBlock(x, y, z int) block.Type {
	p := coords.BlockPos{X: x, Y: y, Z: z}
	ch := w.store.GetChunkFromBlockCoords(p)
	if ch == nil || ch.State() != StateResident {
		return w.sphere.BlockTypeAt(p)
	}
	lx, ly, lz := p.Local()
	return ch.GetBlock(lx, ly, lz)
}

// SetBlock writes a block at absolute voxel coordinates, loading the owning
// chunk if needed. Edits on a chunk face also dirty the chunk across it so
// both sides rebuild their border faces.
func (w *World) SetBlock(x, y, z int, t block.Type) error {
	if t != block.Air && !t.Placeable() {
		return ErrUnknownBlockType
	}
	p := coords.BlockPos{X: x, Y: y, Z: z}
	if !w.sphere.IsWithinBuildRange(p.Center()) {
		return ErrOutsideBuildRange
	}

	ch := w.loadChunk(p.Chunk())
	lx, ly, lz := p.Local()
	ch.SetBlock(lx, ly, lz, t)
	ch.MarkMeshDirty()

	// Mark neighbor chunks dirty if we touched a border block
	c := ch.Coord()
	local := [3]int{lx, ly, lz}
	for axis := 0; axis < 3; axis++ {
		var d [3]int
		switch local[axis] {
		case 0:
			d[axis] = -1
		case ChunkSize - 1:
			d[axis] = 1
		default:
			continue
		}
		if nb := w.store.Get(coords.ChunkKey{Coord: c.Add(d[0], d[1], d[2]), LOD: 1}); nb != nil {
			nb.MarkMeshDirty()
		}
	}
	return nil
}

// loadChunk returns the resident full-detail chunk, generating it if absent.
func (w *World) loadChunk(c coords.ChunkCoord) *Chunk {
	key := coords.ChunkKey{Coord: c, LOD: 1}
	if ch := w.store.Get(key); ch != nil {
		return ch
	}
	ch := NewChunk(key)
	ch.GenerateTerrain(w.sphere)
	w.store.AddChunk(ch)
	return ch
}

// Chunk returns the chunk stored under key, or nil.
func (w *World) Chunk(key coords.ChunkKey) *Chunk {
	return w.store.Get(key)
}

// ChunkAt returns the full-detail chunk at a chunk coordinate, or nil.
func (w *World) ChunkAt(c coords.ChunkCoord) *Chunk {
	return w.store.Get(coords.ChunkKey{Coord: c, LOD: 1})
}

// ResidentChunks returns every loaded chunk in a stable order.
func (w *World) ResidentChunks() []*Chunk {
	return w.store.AllChunks()
}

// RegenerateMesh rebuilds one chunk's mesh immediately. It reports false for
// unknown keys.
func (w *World) RegenerateMesh(key coords.ChunkKey) bool {
	ch := w.store.Get(key)
	if ch == nil {
		return false
	}
	ch.RegenerateMesh(w.sphere)
	return true
}

// MeshFor returns a chunk's mesh, rebuilding it first if it is dirty.
func (w *World) MeshFor(key coords.ChunkKey) (meshing.Mesh, bool) {
	ch := w.store.Get(key)
	if ch == nil {
		return meshing.Mesh{}, false
	}
	if ch.IsMeshDirty() {
		ch.RegenerateMesh(w.sphere)
	}
	return ch.Mesh(), true
}
