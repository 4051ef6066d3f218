package world

import (
	"log"

	"spherecraft/internal/config"
	"spherecraft/internal/coords"
	"spherecraft/internal/meshing"
	"spherecraft/internal/profiling"
	"spherecraft/internal/spheremath"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/slices"
)

// StreamResult summarises one streaming pass.
type StreamResult struct {
	// Restreamed is false when the observer stayed in the same chunk and no
	// candidate was waiting, so the pass was skipped.
	Restreamed bool
	Created    int
	Evicted    int
	// Deferred counts candidates left for a later tick by the creation cap.
	Deferred int
}

// ChunkStreamer keeps the chunk map in step with the observer. All work is
// synchronous; the per-tick creation cap bounds how long a pass can take.
type ChunkStreamer struct {
	store    *ChunkStore
	sphere   spheremath.Sphere
	settings config.Streaming

	origin    coords.ChunkCoord
	hasOrigin bool
	deferred  int

	candidates []candidate
	prof       *profiling.Profiler
	log        *log.Logger
}

type candidate struct {
	key    coords.ChunkKey
	distSq int64
	// partial proxy around the detail neighbourhood
	cut bool
}

// NewChunkStreamer creates a new chunk streamer.
func NewChunkStreamer(store *ChunkStore, s spheremath.Sphere, settings config.Streaming, prof *profiling.Profiler, logger *log.Logger) *ChunkStreamer {
	return &ChunkStreamer{
		store:    store,
		sphere:   s,
		settings: settings,
		prof:     prof,
		log:      logger,
	}
}

// Origin returns the chunk the last pass streamed around.
func (cs *ChunkStreamer) Origin() coords.ChunkCoord { return cs.origin }

// Deferred returns how many candidates are still waiting for creation.
func (cs *ChunkStreamer) Deferred() int { return cs.deferred }

// Stream runs one pass around the observer chunk: create missing candidates
// nearest first up to the cap, then drop everything that is not a candidate.
func (cs *ChunkStreamer) Stream(center coords.ChunkCoord) StreamResult {
	defer cs.prof.Track("world.Stream")()

	if cs.hasOrigin && center == cs.origin && cs.deferred == 0 {
		return StreamResult{}
	}
	cs.origin = center
	cs.hasOrigin = true

	cands := cs.collectCandidates(center)
	keep := make(map[coords.ChunkKey]struct{}, len(cands))

	cut := meshing.Cutout{Center: center, Radius: cs.settings.Radius}
	res := StreamResult{Restreamed: true}
	for _, cand := range cands {
		keep[cand.key] = struct{}{}
		if ch := cs.store.Get(cand.key); ch != nil {
			if cand.key.LOD > 1 {
				ch.setCutout(cut, cand.cut)
			}
			continue
		}
		if res.Created >= cs.settings.MaxNewPerTick {
			res.Deferred++
			continue
		}
		if cs.createChunk(cand, cut) {
			res.Created++
		}
	}

	res.Evicted = cs.store.EvictExcept(keep)
	cs.deferred = res.Deferred

	if res.Created > 0 || res.Evicted > 0 {
		cs.log.Printf("stream %v: created %d, evicted %d, deferred %d", center, res.Created, res.Evicted, res.Deferred)
	}
	return res
}

func (cs *ChunkStreamer) createChunk(cand candidate, cut meshing.Cutout) bool {
	defer cs.prof.Track("world.generateChunk")()
	ch := NewChunk(cand.key)
	if cand.key.LOD > 1 {
		ch.setCutout(cut, cand.cut)
	}
	ch.GenerateTerrain(cs.sphere)
	return cs.store.AddChunk(ch)
}

// collectCandidates lists the full-detail neighbourhood and, when enabled, the
// merged proxy ring, sorted by distance from the observer chunk centre. Merged
// cells that overlap the neighbourhood become partial proxies.
func (cs *ChunkStreamer) collectCandidates(center coords.ChunkCoord) []candidate {
	cands := cs.candidates[:0]
	eye := chunkCenter2(coords.ChunkKey{Coord: center, LOD: 1})

	r := cs.settings.Radius
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				key := coords.ChunkKey{Coord: center.Add(dx, dy, dz), LOD: 1}
				cands = append(cands, candidate{key: key, distSq: distSq2(chunkCenter2(key), eye)})
			}
		}
	}

	if f := cs.settings.LODFactor; f > 1 {
		coarse := coords.ChunkCoord{
			X: coords.FloorDiv(center.X, f),
			Y: coords.FloorDiv(center.Y, f),
			Z: coords.FloorDiv(center.Z, f),
		}
		lr := cs.settings.LODRadius
		for dx := -lr; dx <= lr; dx++ {
			for dy := -lr; dy <= lr; dy++ {
				for dz := -lr; dz <= lr; dz++ {
					key := coords.ChunkKey{Coord: coarse.Add(dx, dy, dz), LOD: f}
					if !cs.crossesSurface(key) {
						continue
					}
					cands = append(cands, candidate{
						key:    key,
						distSq: distSq2(chunkCenter2(key), eye),
						cut:    cs.overlapsDetail(key, center),
					})
				}
			}
		}
	}

	slices.SortFunc(cands, func(a, b candidate) int {
		switch {
		case a.distSq < b.distSq:
			return -1
		case a.distSq > b.distSq:
			return 1
		default:
			return compareKeys(a.key, b.key)
		}
	})
	cs.candidates = cands
	return cands
}

// overlapsDetail reports whether a merged cell covers any chunk of the
// full-detail neighbourhood.
func (cs *ChunkStreamer) overlapsDetail(key coords.ChunkKey, center coords.ChunkCoord) bool {
	r := cs.settings.Radius
	f := key.LOD
	span := func(c, o int) bool {
		lo, hi := c*f, c*f+f-1
		return hi >= o-r && lo <= o+r
	}
	return span(key.Coord.X, center.X) && span(key.Coord.Y, center.Y) && span(key.Coord.Z, center.Z)
}

func (cs *ChunkStreamer) crossesSurface(key coords.ChunkKey) bool {
	lo := key.Origin().Vec()
	e := float64(key.Extent())
	return cs.sphere.CrossesSurface(lo, lo.Add(mgl64.Vec3{e, e, e}))
}

// chunkCenter2 is twice the chunk centre in blocks, which keeps it integral.
func chunkCenter2(key coords.ChunkKey) [3]int64 {
	o := key.Origin()
	e := int64(key.Extent())
	return [3]int64{2*int64(o.X) + e, 2*int64(o.Y) + e, 2*int64(o.Z) + e}
}

func distSq2(a, b [3]int64) int64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
