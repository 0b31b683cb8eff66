package scene

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/quadview/pkg/geometry"
)

// ErrEmpty is returned when there is no geometry to export.
var ErrEmpty = errors.New("no geometry to export")

// Document packs the builders, in order, into a single-mesh glTF document
// with POSITION and normalized COLOR_0 attributes.
func Document(builders ...*geometry.Builder) (*gltf.Document, error) {
	positions, colours := geometry.Pack(builders...)
	if len(positions) == 0 {
		return nil, ErrEmpty
	}

	pos := make([][3]float32, len(positions)/3)
	for i := range pos {
		pos[i] = [3]float32{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	col := make([][4]uint8, len(colours)/4)
	for i := range col {
		col[i] = [4]uint8{colours[i*4], colours[i*4+1], colours[i*4+2], colours[i*4+3]}
	}

	doc := gltf.NewDocument()
	posIdx := modeler.WritePosition(doc, pos)
	colIdx := modeler.WriteColor(doc, col)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quadview",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION: posIdx,
				gltf.COLOR_0:  colIdx,
			},
			Mode: gltf.PrimitiveTriangles,
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "quadview", Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)

	return doc, nil
}

// ExportGLB writes the builders to path as a glTF binary.
func ExportGLB(path string, builders ...*geometry.Builder) error {
	doc, err := Document(builders...)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}
