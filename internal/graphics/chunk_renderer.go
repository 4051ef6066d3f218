package graphics

import (
	"io"
	"log"
	"math"

	"spherecraft/internal/config"
	"spherecraft/internal/coords"
	"spherecraft/internal/profiling"
	"spherecraft/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// ChunkSource lists the chunks to draw. *world.World implements it.
type ChunkSource interface {
	ResidentChunks() []*world.Chunk
	// ModCount changes whenever a chunk is added or evicted.
	ModCount() uint64
	// Rebaser is the observer-anchored frame draw translations go through.
	Rebaser() *coords.Rebaser
}

// FrameStats counts what one Render call did.
type FrameStats struct {
	Drawn    int
	Culled   int
	Empty    int
	Created  int
	Uploaded int
	Freed    int
	Failed   int
	Indices  int
}

type chunkBuffers struct {
	handle BufferHandle
	chunk  *world.Chunk
}

// ChunkRenderer owns the GPU side of every resident chunk. Each frame it
// allocates buffers for new chunks, re-uploads changed meshes, draws what is
// in range, and frees the buffers of chunks the world has dropped. It only
// reads chunk data; the buffer flags are the one piece of chunk state it updates.
type ChunkRenderer struct {
	gpu      GPU
	settings *config.RenderSettings
	buffers  map[coords.ChunkKey]chunkBuffers
	seen     map[coords.ChunkKey]struct{}
	// modCount of the source at the last free pass
	modCount uint64
	swept    bool

	prof *profiling.Profiler
	log  *log.Logger
}

// NewChunkRenderer creates a renderer. prof and logger may be nil.
func NewChunkRenderer(gpu GPU, settings *config.RenderSettings, prof *profiling.Profiler, logger *log.Logger) *ChunkRenderer {
	if settings == nil {
		settings = config.NewRenderSettings(config.DefaultRenderDistance)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ChunkRenderer{
		gpu:      gpu,
		settings: settings,
		buffers:  make(map[coords.ChunkKey]chunkBuffers),
		seen:     make(map[coords.ChunkKey]struct{}),
		prof:     prof,
		log:      logger,
	}
}

// BufferCount returns how many chunks currently hold GPU buffers.
func (r *ChunkRenderer) BufferCount() int { return len(r.buffers) }

// Render draws one frame. frustum may be nil to skip view culling.
func (r *ChunkRenderer) Render(src ChunkSource, observer mgl64.Vec3, frustum *Frustum) FrameStats {
	defer r.prof.Track("renderer.renderChunks")()

	var st FrameStats
	clear(r.seen)
	maxDist := float64(r.settings.MaxRenderRadius() * coords.ChunkSize)
	rb := src.Rebaser()

	for _, ch := range src.ResidentChunks() {
		if ch.State() != world.StateResident {
			continue
		}
		key := ch.Key()
		r.seen[key] = struct{}{}

		h, ok := r.sync(ch, &st)
		if !ok {
			continue
		}
		n := ch.IndexCount()
		if n == 0 {
			st.Empty++
			continue
		}

		translation := rb.ChunkOffset(key, observer)
		ext := float32(key.Extent())
		if !inRange(key, observer, maxDist) ||
			(frustum != nil && !frustum.IntersectsAABB(translation, translation.Add(mgl32.Vec3{ext, ext, ext}))) {
			st.Culled++
			continue
		}
		r.gpu.DrawChunk(h, n, translation)
		st.Drawn++
		st.Indices += n
	}

	if mod := src.ModCount(); !r.swept || mod != r.modCount {
		st.Freed += r.freeUnseen()
		r.modCount, r.swept = mod, true
	}
	return st
}

// freeUnseen deletes the buffers of chunks that were not in this frame's list.
func (r *ChunkRenderer) freeUnseen() int {
	n := 0
	for key, b := range r.buffers {
		if _, ok := r.seen[key]; ok {
			continue
		}
		r.gpu.DeleteBuffers(b.handle)
		delete(r.buffers, key)
		n++
	}
	return n
}

// sync brings the chunk's buffers up to date and returns their handle. ok is
// false when the chunk has nothing on the GPU yet.
func (r *ChunkRenderer) sync(ch *world.Chunk, st *FrameStats) (BufferHandle, bool) {
	key := ch.Key()
	b, have := r.buffers[key]
	if have && b.chunk != ch {
		// evicted and recreated under the same key
		r.gpu.DeleteBuffers(b.handle)
		delete(r.buffers, key)
		st.Freed++
		have = false
	}

	switch {
	case ch.BuffersNotCreated():
		if ch.IndexCount() == 0 {
			return 0, false
		}
		h, err := r.gpu.CreateBuffers(ch.Mesh())
		if err != nil {
			r.log.Printf("create buffers for %v: %v", key, err)
			st.Failed++
			return 0, false
		}
		ch.MarkBuffersCreated()
		r.buffers[key] = chunkBuffers{handle: h, chunk: ch}
		st.Created++
		return h, true
	case !have:
		return 0, false
	case ch.BuffersDirty():
		if err := r.gpu.UploadBuffers(b.handle, ch.Mesh()); err != nil {
			r.log.Printf("upload buffers for %v: %v", key, err)
			st.Failed++
			return b.handle, true
		}
		ch.MarkBuffersUploaded()
		st.Uploaded++
	}
	return b.handle, true
}

// inRange compares the distance to the chunk's bounding sphere with the render radius.
func inRange(key coords.ChunkKey, observer mgl64.Vec3, maxDist float64) bool {
	e := float64(key.Extent())
	c := key.Origin().Vec().Add(mgl64.Vec3{e / 2, e / 2, e / 2})
	return c.Sub(observer).Len()-e*math.Sqrt(3)/2 <= maxDist
}

// Dispose frees every buffer the renderer still holds.
func (r *ChunkRenderer) Dispose() {
	for key, b := range r.buffers {
		r.gpu.DeleteBuffers(b.handle)
		delete(r.buffers, key)
	}
	r.swept = false
}
