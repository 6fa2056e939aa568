package mesh

// Data is the raw geometry produced by the generative pipeline: vertex
// positions and triangle face indices, kept exactly as the model emitted them.
type Data struct {
	Vertices [][3]float32 `json:"vertices"`
	Faces    [][3]uint32  `json:"faces"`
}
