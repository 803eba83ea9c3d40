package zonemap

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/zonescan/internal/hash"
	"github.com/hupe1980/zonescan/model"
)

const (
	binaryMagic   = 0x5A4D4150 // "ZMAP"
	binaryVersion = 1
	headerSize    = 16
)

// WriteBinary writes the index in binary format. See the package doc for the layout.
func (ix *Index) WriteBinary(w io.Writer) error {
	pb := newPayloadBuffer(make([]byte, 0, 64+ix.NumZones()*len(ix.columns)*48))

	pb.writeUint64(ix.id)
	pb.writeUint64(uint64(ix.createdAt.UnixNano()))
	pb.writeString(ix.source)
	pb.writeUint32(uint32(ix.zoneSize))
	pb.writeUint64(ix.totalRows)
	pb.writeUint32(uint32(len(ix.columns)))

	for _, c := range ix.columns {
		zs := ix.zones[c]
		pb.writeString(c)
		pb.writeUint32(uint32(len(zs)))
		for _, s := range zs {
			pb.writeUint32(uint32(s.Zone))
			pb.writeUint32(s.Rows)
			pb.writeUint32(s.Missing)
			pb.writeString(s.Min)
			pb.writeString(s.Max)
		}
	}

	if pb.err != nil {
		return pb.err
	}

	payload := pb.buf
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:4], binaryMagic)
	binary.LittleEndian.PutUint32(header[4:8], binaryVersion)
	binary.LittleEndian.PutUint32(header[8:12], hash.CRC32C(payload))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(payload)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadBinary reads an index written by WriteBinary and revalidates it.
func ReadBinary(r io.Reader) (*Index, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != binaryMagic {
		return nil, fmt.Errorf("invalid magic %x: %w", magic, ErrCorrupt)
	}
	if version := binary.LittleEndian.Uint32(header[4:8]); version != binaryVersion {
		return nil, fmt.Errorf("version %d: %w", version, ErrIncompatibleVersion)
	}
	checksum := binary.LittleEndian.Uint32(header[8:12])
	length := binary.LittleEndian.Uint32(header[12:16])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	if err := hash.Verify(payload, checksum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	pb := newPayloadBuffer(payload)
	id := pb.readUint64()
	createdAt := time.Unix(0, int64(pb.readUint64()))
	source := pb.readString()
	zoneSize := int(pb.readUint32())
	totalRows := pb.readUint64()
	numColumns := pb.readUint32()
	if pb.err != nil {
		return nil, pb.err
	}

	columns := make([]string, 0, numColumns)
	type column struct {
		name  string
		zones []Summary
	}
	var cols []column
	for i := uint32(0); i < numColumns && pb.err == nil; i++ {
		name := pb.readString()
		n := pb.readUint32()
		var zs []Summary
		for j := uint32(0); j < n && pb.err == nil; j++ {
			zs = append(zs, Summary{
				Zone:    model.ZoneID(pb.readUint32()),
				Rows:    pb.readUint32(),
				Missing: pb.readUint32(),
				Min:     pb.readString(),
				Max:     pb.readString(),
			})
		}
		columns = append(columns, name)
		cols = append(cols, column{name: name, zones: zs})
	}
	if pb.err != nil {
		return nil, pb.err
	}

	b := NewBuilder(source, zoneSize, columns)
	b.createdAt = createdAt
	for _, c := range cols {
		for _, s := range c.zones {
			if err := b.Add(c.name, s); err != nil {
				return nil, err
			}
		}
	}
	ix, err := b.Build()
	if err != nil {
		return nil, err
	}
	if ix.totalRows != totalRows {
		return nil, fmt.Errorf("total rows %d, summaries cover %d: %w", totalRows, ix.totalRows, ErrCorrupt)
	}
	ix.id = id
	return ix, nil
}

type payloadBuffer struct {
	buf []byte
	pos int
	err error
}

func newPayloadBuffer(b []byte) *payloadBuffer {
	return &payloadBuffer{buf: b}
}

func (p *payloadBuffer) writeUint64(v uint64) {
	if p.err != nil {
		return
	}
	p.buf = binary.LittleEndian.AppendUint64(p.buf, v)
}

func (p *payloadBuffer) writeUint32(v uint32) {
	if p.err != nil {
		return
	}
	p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
}

func (p *payloadBuffer) writeString(s string) {
	if p.err != nil {
		return
	}
	if len(s) > 65535 {
		p.err = fmt.Errorf("string too long: %d", len(s))
		return
	}
	p.buf = binary.LittleEndian.AppendUint16(p.buf, uint16(len(s)))
	p.buf = append(p.buf, s...)
}

func (p *payloadBuffer) readUint64() uint64 {
	if p.err != nil {
		return 0
	}
	if p.pos+8 > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return 0
	}
	v := binary.LittleEndian.Uint64(p.buf[p.pos:])
	p.pos += 8
	return v
}

func (p *payloadBuffer) readUint32() uint32 {
	if p.err != nil {
		return 0
	}
	if p.pos+4 > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return 0
	}
	v := binary.LittleEndian.Uint32(p.buf[p.pos:])
	p.pos += 4
	return v
}

func (p *payloadBuffer) readString() string {
	if p.err != nil {
		return ""
	}
	if p.pos+2 > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return ""
	}
	l := int(binary.LittleEndian.Uint16(p.buf[p.pos:]))
	p.pos += 2

	if p.pos+l > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return ""
	}
	s := string(p.buf[p.pos : p.pos+l])
	p.pos += l
	return s
}
