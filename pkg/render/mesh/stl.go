package mesh

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/netblend/netblend/pkg/errors"
)

const stlHeader = "netblend binary STL"

// WriteSTL writes m as binary STL. Each facet takes its normal from the
// first vertex of the triangle.
func WriteSTL(w io.Writer, m *Mesh) error {
	if uint64(m.TriangleCount()) > math.MaxUint32 {
		return errors.New(errors.ErrCodeUnsupported, "mesh has %d triangles, STL holds at most %d", m.TriangleCount(), uint32(math.MaxUint32))
	}

	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], stlHeader)
	if _, err := bw.Write(header[:]); err != nil {
		return stlErr(err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return stlErr(err)
	}

	var facet [12]float32
	for t := 0; t < m.TriangleCount(); t++ {
		i0 := int(m.Indices[3*t])
		copy(facet[0:3], m.Normals[3*i0:3*i0+3])
		for j := 0; j < 3; j++ {
			vi := int(m.Indices[3*t+j])
			copy(facet[3+3*j:6+3*j], m.Vertices[3*vi:3*vi+3])
		}
		if err := binary.Write(bw, binary.LittleEndian, facet); err != nil {
			return stlErr(err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return stlErr(err)
		}
	}
	if err := bw.Flush(); err != nil {
		return stlErr(err)
	}
	return nil
}

func stlErr(err error) error {
	return errors.Wrap(errors.ErrCodeInternal, err, "write STL")
}
