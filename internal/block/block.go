package block

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Type identifies the material of a voxel.
type Type uint8

const (
	Air Type = iota
	Dirt
	Grass
	Stone
)

var typeNames = [...]string{
	Air:   "air",
	Dirt:  "dirt",
	Grass: "grass",
	Stone: "stone",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsSolid reports whether the type occupies its voxel for meshing and collision.
func (t Type) IsSolid() bool {
	return t != Air
}

// Placeable reports whether the editor may place this type.
func (t Type) Placeable() bool {
	return t != Air && int(t) < len(typeNames)
}

// Block is a single voxel. Chunks own these by value.
type Block struct {
	Type Type
}

// Face identifies a face of a block
type Face int

const (
	FaceNorth  Face = iota // +Z
	FaceSouth              // -Z
	FaceEast               // +X
	FaceWest               // -X
	FaceTop                // +Y
	FaceBottom             // -Y
)

// Faces lists all six faces in emission order.
var Faces = [6]Face{FaceNorth, FaceSouth, FaceEast, FaceWest, FaceTop, FaceBottom}

var faceOffsets = [6][3]int{
	FaceNorth:  {0, 0, 1},
	FaceSouth:  {0, 0, -1},
	FaceEast:   {1, 0, 0},
	FaceWest:   {-1, 0, 0},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
}

// Offset returns the integer step to the neighbouring voxel across the face.
func (f Face) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() mgl64.Vec3 {
	o := faceOffsets[f]
	return mgl64.Vec3{float64(o[0]), float64(o[1]), float64(o[2])}
}

// Normal32 is Normal narrowed for vertex buffers.
func (f Face) Normal32() mgl32.Vec3 {
	o := faceOffsets[f]
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

// Opposite returns the face pointing the other way.
func (f Face) Opposite() Face {
	return f ^ 1
}

// Axis returns 0, 1 or 2 for the X, Y or Z axis the face is perpendicular to.
func (f Face) Axis() int {
	switch f {
	case FaceEast, FaceWest:
		return 0
	case FaceTop, FaceBottom:
		return 1
	default:
		return 2
	}
}

// FaceFromNormal maps an axis-aligned integer step back to its face.
// ok is false for anything that is not a unit axis step.
func FaceFromNormal(dx, dy, dz int) (Face, bool) {
	for _, f := range Faces {
		o := faceOffsets[f]
		if o[0] == dx && o[1] == dy && o[2] == dz {
			return f, true
		}
	}
	return 0, false
}

// Corners returns the four corners of the face on the unit cube [0,1]^3,
// wound counter-clockwise when seen from outside.
func (f Face) Corners() [4][3]float64 {
	return faceCorners[f]
}

var faceCorners = [6][4][3]float64{
	FaceNorth:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	FaceSouth:  {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	FaceEast:   {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	FaceWest:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	FaceTop:    {{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
	FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
}

// GetBlockColor returns the flat shading colour for a block type.
func GetBlockColor(t Type) mgl32.Vec3 {
	switch t {
	case Grass:
		return mgl32.Vec3{0.36, 0.62, 0.25}
	case Dirt:
		return mgl32.Vec3{0.45, 0.32, 0.2}
	case Stone:
		return mgl32.Vec3{0.5, 0.5, 0.5}
	default:
		return mgl32.Vec3{1.0, 0.0, 1.0} // Magenta (fallback)
	}
}
