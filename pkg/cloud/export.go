package cloud

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"cupheat/pkg/geometry"
	"cupheat/pkg/material"

	"github.com/vmihailenco/msgpack/v5"
)

// Meta describes the simulation state a snapshot was taken at.
type Meta struct {
	RunID string  `msgpack:"run_id"`
	Time  float64 `msgpack:"time"`
	Steps uint64  `msgpack:"steps"`
}

// Record is one exported point.
type Record struct {
	X           float64 `msgpack:"x"`
	Y           float64 `msgpack:"y"`
	Z           float64 `msgpack:"z"`
	Temperature float64 `msgpack:"t"`
	Material    uint8   `msgpack:"m"`
	Volume      float64 `msgpack:"v"`
}

// Snapshot is a pure data dump of a cloud: one record per point in cloud
// order with the field values current at capture time.
type Snapshot struct {
	Meta    Meta     `msgpack:"meta"`
	Spacing float64  `msgpack:"spacing"`
	Points  []Record `msgpack:"points"`
}

// Snapshot captures the current field.
func (c *PointCloud) Snapshot(meta Meta) Snapshot {
	s := Snapshot{Meta: meta, Spacing: c.spacing, Points: make([]Record, len(c.positions))}
	for i, p := range c.positions {
		s.Points[i] = Record{
			X:           p.X,
			Y:           p.Y,
			Z:           p.Z,
			Temperature: c.temps[i],
			Material:    uint8(c.materials[i]),
			Volume:      c.volumes[i],
		}
	}
	return s
}

// Cloud rebuilds a point cloud from the snapshot.
func (s Snapshot) Cloud() (*PointCloud, error) {
	c := New(s.Spacing, len(s.Points))
	for i, r := range s.Points {
		k := material.Kind(r.Material)
		if !k.Valid() {
			return nil, fmt.Errorf("snapshot point %d: unknown material %d", i, r.Material)
		}
		c.Add(Point{
			Position:    geometry.Vec3{X: r.X, Y: r.Y, Z: r.Z},
			Temperature: r.Temperature,
			Material:    k,
			Volume:      r.Volume,
		})
	}
	return c, nil
}

// WriteMsgpack encodes s as MessagePack.
func WriteMsgpack(w io.Writer, s Snapshot) error {
	return msgpack.NewEncoder(w).Encode(&s)
}

// ReadMsgpack decodes a snapshot written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// WriteVTK writes the cloud as a legacy ASCII VTK unstructured grid of
// vertex cells with temperature and material point scalars.
func (c *PointCloud) WriteVTK(w io.Writer, title string) error {
	if title == "" {
		title = "cupheat point cloud"
	}
	n := len(c.positions)
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n", title)
	fmt.Fprintf(bw, "POINTS %d double\n", n)
	for _, p := range c.positions {
		bw.WriteString(formatFloat(p.X))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(p.Y))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(p.Z))
		bw.WriteByte('\n')
	}

	fmt.Fprintf(bw, "CELLS %d %d\n", n, 2*n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(bw, "1 %d\n", i)
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", n)
	for i := 0; i < n; i++ {
		bw.WriteString("1\n")
	}

	fmt.Fprintf(bw, "POINT_DATA %d\nSCALARS temperature double 1\nLOOKUP_TABLE default\n", n)
	for _, t := range c.temps {
		bw.WriteString(formatFloat(t))
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "SCALARS material int 1\nLOOKUP_TABLE default\n")
	for _, m := range c.materials {
		bw.WriteString(strconv.Itoa(int(m)))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
