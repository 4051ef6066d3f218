package graphics

import (
	"spherecraft/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferHandle identifies the GPU buffers holding one chunk's mesh.
type BufferHandle uint32

// GPU is the buffer API the chunk renderer drives. The OpenGL implementation
// lives in the renderer package; tests use an in-memory fake.
type GPU interface {
	// CreateBuffers allocates buffers and fills them with m.
	CreateBuffers(m meshing.Mesh) (BufferHandle, error)
	// UploadBuffers replaces the contents of existing buffers.
	UploadBuffers(h BufferHandle, m meshing.Mesh) error
	// DrawChunk issues one indexed draw translated by the observer-relative chunk origin.
	DrawChunk(h BufferHandle, indexCount int, translation mgl32.Vec3)
	DeleteBuffers(h BufferHandle)
}
