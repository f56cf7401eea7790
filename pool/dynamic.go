package pool

import "sync"

type dynamic struct {
	size int
	p    sync.Pool
}

// NewDynamic returns a Pool of size-byte buffers backed by sync.Pool: it
// grows under load and lets the garbage collector reclaim it under
// memory pressure, rather than holding a fixed ceiling.
func NewDynamic(size int) Pool {
	d := &dynamic{size: size}
	d.p.New = func() any {
		return make([]byte, size)
	}
	return d
}

func (d *dynamic) Get() []byte {
	return d.p.Get().([]byte)[:d.size]
}

func (d *dynamic) Put(buf []byte) {
	if cap(buf) < d.size {
		return
	}
	d.p.Put(buf[:d.size])
}
