package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"road_mesh/pkg/geo"
)

const (
	magicBytes  = "ROADMESH"
	version     = uint32(1)
	maxVertices = 10_000_000
	maxEdges    = 50_000_000
	maxBlocks   = 10_000_000
)

// Mesh is the persisted form of a generated network: the full graph, which
// of its edges belong to the skeleton and the extracted blocks. Blocks are
// stored CSR-style: BlockFirst[i]..BlockFirst[i+1] index into BlockVerts.
type Mesh struct {
	X, Y       []float64 // vertex coordinates
	EdgeFrom   []uint32
	EdgeTo     []uint32
	Backbone   []uint8 // 1 if the edge is (part of) a skeleton edge
	BlockFirst []uint32
	BlockVerts []uint32
}

// fileHeader is the binary header.
type fileHeader struct {
	Magic         [8]byte
	Version       uint32
	NumVertices   uint32
	NumEdges      uint32
	NumBlocks     uint32
	NumBlockVerts uint32
}

// NewMesh flattens a full graph, its skeleton subgraph and its blocks.
func NewMesh(full, backbone *Graph, blocks [][]geo.Point) *Mesh {
	m := &Mesh{}
	idx := make(map[geo.Point]uint32, full.NumVertices())
	for i, v := range full.Vertices() {
		idx[v] = uint32(i)
		m.X = append(m.X, v.X)
		m.Y = append(m.Y, v.Y)
	}
	for _, e := range full.Edges() {
		m.EdgeFrom = append(m.EdgeFrom, idx[e.Start])
		m.EdgeTo = append(m.EdgeTo, idx[e.End])
		var flag uint8
		if backbone != nil && backbone.HasEdge(e) {
			flag = 1
		}
		m.Backbone = append(m.Backbone, flag)
	}
	m.BlockFirst = make([]uint32, 0, len(blocks)+1)
	m.BlockFirst = append(m.BlockFirst, 0)
	for _, b := range blocks {
		for _, p := range b {
			m.BlockVerts = append(m.BlockVerts, idx[p])
		}
		m.BlockFirst = append(m.BlockFirst, uint32(len(m.BlockVerts)))
	}
	return m
}

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return len(m.X) }

// NumEdges returns the edge count.
func (m *Mesh) NumEdges() int { return len(m.EdgeFrom) }

// NumBlocks returns the block count.
func (m *Mesh) NumBlocks() int { return len(m.BlockFirst) - 1 }

// Graph rebuilds the full planar graph.
func (m *Mesh) Graph() *Graph {
	g := New()
	for i := range m.X {
		g.AddVertex(geo.Pt(m.X[i], m.Y[i]))
	}
	for i := range m.EdgeFrom {
		g.AddEdge(geo.Seg(m.vertex(m.EdgeFrom[i]), m.vertex(m.EdgeTo[i])))
	}
	return g
}

// Block returns the vertices of block i.
func (m *Mesh) Block(i int) []geo.Point {
	verts := m.BlockVerts[m.BlockFirst[i]:m.BlockFirst[i+1]]
	out := make([]geo.Point, len(verts))
	for j, v := range verts {
		out[j] = m.vertex(v)
	}
	return out
}

func (m *Mesh) vertex(i uint32) geo.Point { return geo.Pt(m.X[i], m.Y[i]) }

// WriteBinary serializes a Mesh to a binary file.
// Uses unsafe.Slice for fast zero-copy I/O.
func WriteBinary(path string, m *Mesh) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:       version,
		NumVertices:   uint32(m.NumVertices()),
		NumEdges:      uint32(m.NumEdges()),
		NumBlocks:     uint32(m.NumBlocks()),
		NumBlockVerts: uint32(len(m.BlockVerts)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Vertex data.
	if err := writeFloat64Slice(w, m.X); err != nil {
		return fmt.Errorf("write X: %w", err)
	}
	if err := writeFloat64Slice(w, m.Y); err != nil {
		return fmt.Errorf("write Y: %w", err)
	}

	// Edges.
	if err := writeUint32Slice(w, m.EdgeFrom); err != nil {
		return fmt.Errorf("write EdgeFrom: %w", err)
	}
	if err := writeUint32Slice(w, m.EdgeTo); err != nil {
		return fmt.Errorf("write EdgeTo: %w", err)
	}
	if _, err := w.Write(m.Backbone); err != nil {
		return fmt.Errorf("write Backbone: %w", err)
	}

	// Blocks.
	if err := writeUint32Slice(w, m.BlockFirst); err != nil {
		return fmt.Errorf("write BlockFirst: %w", err)
	}
	if err := writeUint32Slice(w, m.BlockVerts); err != nil {
		return fmt.Errorf("write BlockVerts: %w", err)
	}

	// Write CRC32 trailer.
	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary deserializes a Mesh from a binary file.
func ReadBinary(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	// Read and validate header.
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumVertices > maxVertices {
		return nil, fmt.Errorf("NumVertices %d exceeds limit %d", hdr.NumVertices, maxVertices)
	}
	if hdr.NumEdges > maxEdges || hdr.NumBlockVerts > maxEdges {
		return nil, fmt.Errorf("edge count exceeds limit %d", maxEdges)
	}
	if hdr.NumBlocks > maxBlocks {
		return nil, fmt.Errorf("NumBlocks %d exceeds limit %d", hdr.NumBlocks, maxBlocks)
	}

	m := &Mesh{}

	if m.X, err = readFloat64Slice(r, int(hdr.NumVertices)); err != nil {
		return nil, fmt.Errorf("read X: %w", err)
	}
	if m.Y, err = readFloat64Slice(r, int(hdr.NumVertices)); err != nil {
		return nil, fmt.Errorf("read Y: %w", err)
	}
	if m.EdgeFrom, err = readUint32Slice(r, int(hdr.NumEdges)); err != nil {
		return nil, fmt.Errorf("read EdgeFrom: %w", err)
	}
	if m.EdgeTo, err = readUint32Slice(r, int(hdr.NumEdges)); err != nil {
		return nil, fmt.Errorf("read EdgeTo: %w", err)
	}
	m.Backbone = make([]uint8, hdr.NumEdges)
	if _, err := io.ReadFull(r, m.Backbone); err != nil {
		return nil, fmt.Errorf("read Backbone: %w", err)
	}
	if m.BlockFirst, err = readUint32Slice(r, int(hdr.NumBlocks+1)); err != nil {
		return nil, fmt.Errorf("read BlockFirst: %w", err)
	}
	if m.BlockVerts, err = readUint32Slice(r, int(hdr.NumBlockVerts)); err != nil {
		return nil, fmt.Errorf("read BlockVerts: %w", err)
	}

	// Read and validate CRC32.
	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	for i := range m.EdgeFrom {
		if m.EdgeFrom[i] >= hdr.NumVertices || m.EdgeTo[i] >= hdr.NumVertices {
			return nil, fmt.Errorf("edge %d references vertex out of range", i)
		}
	}
	if err := validateCSR(m.BlockFirst, m.BlockVerts, hdr.NumBlocks, hdr.NumVertices); err != nil {
		return nil, fmt.Errorf("blocks invalid: %w", err)
	}

	return m, nil
}

// validateCSR checks CSR invariants: numRows+1 monotonic offsets ending at
// len(head), and every head entry below numTargets.
func validateCSR(firstOut, head []uint32, numRows, numTargets uint32) error {
	if uint32(len(firstOut)) != numRows+1 {
		return fmt.Errorf("FirstOut length %d != rows+1 %d", len(firstOut), numRows+1)
	}
	if firstOut[0] != 0 {
		return fmt.Errorf("FirstOut[0] = %d, want 0", firstOut[0])
	}
	if uint32(len(head)) != firstOut[numRows] {
		return fmt.Errorf("Head length %d != FirstOut[rows] %d", len(head), firstOut[numRows])
	}
	for i := uint32(1); i <= numRows; i++ {
		if firstOut[i] < firstOut[i-1] {
			return fmt.Errorf("FirstOut not monotonic at %d: %d < %d", i, firstOut[i], firstOut[i-1])
		}
	}
	for i, h := range head {
		if h >= numTargets {
			return fmt.Errorf("Head[%d]=%d >= %d", i, h, numTargets)
		}
	}
	return nil
}

// Zero-copy I/O helpers using unsafe.Slice.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readFloat64Slice(r io.Reader, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]float64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
