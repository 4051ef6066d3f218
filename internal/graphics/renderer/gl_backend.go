package renderer

import (
	"errors"

	"spherecraft/internal/graphics"
	"spherecraft/internal/meshing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrEmptyMesh      = errors.New("mesh has no indices")
	ErrUnknownBuffers = errors.New("unknown buffer handle")
)

type glMesh struct {
	vao, vbo, ebo uint32
}

// GLBackend implements graphics.GPU with one VAO, VBO and EBO per chunk.
// Every call must happen on the thread that owns the GL context.
type GLBackend struct {
	shader *Shader
	meshes map[graphics.BufferHandle]glMesh
	next   graphics.BufferHandle
}

// NewGLBackend returns a backend that sets the chunk translation on shader.
func NewGLBackend(shader *Shader) *GLBackend {
	return &GLBackend{shader: shader, meshes: make(map[graphics.BufferHandle]glMesh)}
}

func (b *GLBackend) CreateBuffers(m meshing.Mesh) (graphics.BufferHandle, error) {
	if m.Empty() {
		return 0, ErrEmptyMesh
	}
	var gm glMesh
	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)
	gl.GenBuffers(1, &gm.vbo)
	gl.GenBuffers(1, &gm.ebo)
	fill(gm, m)

	stride := int32(meshing.VertexStride * 4)
	// pos.xyz
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	// normal.xyz
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	// material
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 1, gl.FLOAT, false, stride, 6*4)
	gl.BindVertexArray(0)

	b.next++
	b.meshes[b.next] = gm
	return b.next, nil
}

func (b *GLBackend) UploadBuffers(h graphics.BufferHandle, m meshing.Mesh) error {
	gm, ok := b.meshes[h]
	if !ok {
		return ErrUnknownBuffers
	}
	if m.Empty() {
		// nothing will be drawn; keep the old storage
		return nil
	}
	gl.BindVertexArray(gm.vao)
	fill(gm, m)
	gl.BindVertexArray(0)
	return nil
}

// fill expects gm.vao to be bound so the element buffer binding sticks to it.
func fill(gm glMesh, m meshing.Mesh) {
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
}

func (b *GLBackend) DrawChunk(h graphics.BufferHandle, indexCount int, translation mgl32.Vec3) {
	gm, ok := b.meshes[h]
	if !ok {
		return
	}
	b.shader.SetVec3("chunkOffset", translation)
	gl.BindVertexArray(gm.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, 0)
}

func (b *GLBackend) DeleteBuffers(h graphics.BufferHandle) {
	gm, ok := b.meshes[h]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	gl.DeleteBuffers(1, &gm.ebo)
	delete(b.meshes, h)
}
