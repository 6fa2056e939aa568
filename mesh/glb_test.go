package mesh

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMesh() Data {
	return Data{
		Vertices: [][3]float32{
			{0, 0, 0},
			{1, 0, 0},
			{0.5, 1, 0},
			{0.5, 0.5, 1},
		},
		Faces: [][3]uint32{
			{0, 1, 2},
			{0, 1, 3},
			{1, 2, 3},
			{0, 2, 3},
		},
	}
}

func TestExportGLB_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output_test.glb")
	want := testMesh()

	require.NoError(t, ExportGLB(want, path))

	got, err := ReadGLB(path)
	require.NoError(t, err)

	assert.Equal(t, len(want.Vertices), len(got.Vertices))
	assert.Equal(t, len(want.Faces), len(got.Faces))
	assert.Equal(t, want.Vertices, got.Vertices)
	assert.Equal(t, want.Faces, got.Faces)
}

func TestExportGLB_EmptyMeshFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output_empty.glb")

	err := ExportGLB(Data{}, path)
	assert.Error(t, err)
}

func TestReadGLB_MissingFileFails(t *testing.T) {
	_, err := ReadGLB(filepath.Join(t.TempDir(), "does-not-exist.glb"))
	assert.Error(t, err)
}
