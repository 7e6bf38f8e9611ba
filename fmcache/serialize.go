package fmcache

import (
	"github.com/uensalo/gingo/bitstream"
	"github.com/uensalo/gingo/fmindex"
)

// Serialise packs the cache into the ginc binary layout: header (depth,
// c_0, n_entries), the offset table, the packed value buffer, then the
// embedded key-FMI blob — mirroring gfmi's gini layout (header, tables,
// embedded FM-index) for a cache's smaller, flatter data model.
func (c *Cache) Serialise() []byte {
	w := bitstream.NewWriter()
	w.WriteUint(0, 64) // placeholder for total bit length
	w.WriteUint(uint64(c.depth), 32)
	w.WriteUint(uint64(c.c0), 8)
	n := len(c.off)
	w.WriteUint(uint64(n), 64)

	for _, o := range c.off {
		w.WriteUint(o, 64)
	}
	w.WriteUint(uint64(len(c.values)), 64)
	for _, v := range c.values {
		w.WriteUint(v, 64)
	}

	w.Align()
	if n > 0 {
		fmiBytes := c.keyFMI.Serialise()
		w.WriteUint(uint64(len(fmiBytes))*8, 64)
		for _, b := range fmiBytes {
			w.WriteUint(uint64(b), 8)
		}
	} else {
		w.WriteUint(0, 64)
	}

	vec := w.Vector()
	vec.Write(0, vec.NBits(), 64)
	return vec.Serialise()
}

// Deserialise reconstructs a Cache from a buffer produced by Serialise.
func Deserialise(buf []byte) (*Cache, error) {
	probe := bitstream.FromBytes(buf, uint64(len(buf))*8)
	totalBits := probe.Read(0, 64)

	vec := bitstream.FromBytes(buf, totalBits)
	r := bitstream.NewReader(vec)
	r.ReadUint(64)

	c := &Cache{}
	c.depth = int(r.ReadUint(32))
	c.c0 = byte(r.ReadUint(8))
	n := int(r.ReadUint(64))

	c.off = make([]uint64, n)
	for i := range c.off {
		c.off[i] = r.ReadUint(64)
	}
	nv := int(r.ReadUint(64))
	c.values = make([]uint64, nv)
	for i := range c.values {
		c.values[i] = r.ReadUint(64)
	}

	r.Align()
	fmiBits := r.ReadUint(64)
	if n > 0 {
		fmiBytes := make([]byte, (fmiBits+7)/8)
		for i := range fmiBytes {
			fmiBytes[i] = byte(r.ReadUint(8))
		}
		fmi, err := fmindex.Deserialise(fmiBytes)
		if err != nil {
			return nil, err
		}
		c.keyFMI = fmi
	}

	return c, nil
}
