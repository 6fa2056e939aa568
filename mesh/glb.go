package mesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ExportGLB writes the mesh to path as a binary glTF document. The geometry
// is exported as-is: no repair, welding or validation is applied, so the
// pipeline's raw output is preserved.
func ExportGLB(d Data, path string) error {
	if len(d.Vertices) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}

	doc := gltf.NewDocument()

	posAccessor := modeler.WritePosition(doc, d.Vertices)

	indices := make([]uint32, 0, len(d.Faces)*3)
	for _, f := range d.Faces {
		indices = append(indices, f[0], f[1], f[2])
	}
	idxAccessor := modeler.WriteIndices(doc, indices)

	doc.Meshes = []*gltf.Mesh{{
		Name: "generated",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idxAccessor),
			Attributes: gltf.Attribute{gltf.POSITION: posAccessor},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "generated", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("failed to write GLB: %w", err)
	}
	return nil
}

// ReadGLB decodes the vertex and face arrays back out of a binary glTF file.
// Used by tests and by worker-side verification tooling.
func ReadGLB(path string) (Data, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("failed to open GLB: %w", err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return Data{}, fmt.Errorf("GLB contains no mesh primitives")
	}

	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return Data{}, fmt.Errorf("GLB primitive has no position attribute")
	}
	vertices, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return Data{}, fmt.Errorf("failed to read positions: %w", err)
	}

	if prim.Indices == nil {
		return Data{Vertices: vertices}, nil
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return Data{}, fmt.Errorf("failed to read indices: %w", err)
	}
	if len(indices)%3 != 0 {
		return Data{}, fmt.Errorf("GLB index count %d is not a multiple of 3", len(indices))
	}

	faces := make([][3]uint32, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		faces = append(faces, [3]uint32{indices[i], indices[i+1], indices[i+2]})
	}

	return Data{Vertices: vertices, Faces: faces}, nil
}
