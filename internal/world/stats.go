package world

import "spherecraft/internal/coords"

// Stats is a read-only snapshot for debug and telemetry collaborators.
type Stats struct {
	WorldID           string            `json:"worldId"`
	Tick              uint64            `json:"tick"`
	Origin            coords.ChunkCoord `json:"origin"`
	Chunks            int               `json:"chunks"`
	Proxies           int               `json:"proxies"`
	MeshDirty         int               `json:"meshDirty"`
	BuffersDirty      int               `json:"buffersDirty"`
	BuffersNotCreated int               `json:"buffersNotCreated"`
	Vertices          int               `json:"vertices"`
	Indices           int               `json:"indices"`
	Deferred          int               `json:"deferred"`
}

// Stats collects counters without touching any chunk state.
func (w *World) Stats() Stats {
	st := Stats{
		WorldID:  w.id.String(),
		Tick:     w.tick,
		Origin:   w.rebaser.Origin(),
		Deferred: w.streamer.Deferred(),
	}
	for _, ch := range w.store.AllChunks() {
		if ch.LOD() > 1 {
			st.Proxies++
		} else {
			st.Chunks++
		}
		if ch.IsMeshDirty() {
			st.MeshDirty++
		}
		if ch.BuffersDirty() {
			st.BuffersDirty++
		}
		if ch.BuffersNotCreated() {
			st.BuffersNotCreated++
		}
		st.Vertices += ch.VertexCount()
		st.Indices += ch.IndexCount()
	}
	return st
}
