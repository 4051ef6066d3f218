package main

import (
	"log"
	"time"

	"spherecraft/internal/graphics"
	"spherecraft/internal/player"
	"spherecraft/internal/profiling"
	"spherecraft/internal/telemetry"
	"spherecraft/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const headlessDT = 1.0 / 60

// runHeadless walks the observer across the surface at a fixed time step and
// reports streaming activity, without any GPU.
func runHeadless(w *world.World, hub *telemetry.Hub, prof *profiling.Profiler, logger *log.Logger, ticks int) {
	p := player.New(w, graphics.NewCamera(1, 1), prof)
	p.Spawn(mgl64.Vec3{0, 1, 0})

	var created, evicted, rebuilt int
	start := time.Now()
	for i := 0; i < ticks; i++ {
		prof.ResetFrame()
		tickStart := time.Now()

		p.UpdatePosition(headlessDT, player.Intent{Forward: 1, Sprint: true})
		res := w.Update(p.GetEyePosition())
		created += res.Stream.Created
		evicted += res.Stream.Evicted
		rebuilt += res.MeshesRebuilt

		if hub != nil {
			hub.Publish(w.Stats())
		}
		if d := time.Since(tickStart); d > 16*time.Millisecond {
			logger.Printf("Slow tick %d: %v. Top tasks: %s", i, d, prof.TopN(5))
		}
	}

	st := w.Stats()
	logger.Printf("%d ticks in %v: created %d, evicted %d, meshes rebuilt %d", ticks, time.Since(start), created, evicted, rebuilt)
	logger.Printf("resident %d chunks + %d proxies, %d vertices, %d indices, %d deferred",
		st.Chunks, st.Proxies, st.Vertices, st.Indices, st.Deferred)
}
