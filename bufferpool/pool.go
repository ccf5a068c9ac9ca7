package bufferpool

import "sync"

const (
	MaxAddrBufferSize    = 259
	MaxMessageBufferSize = 520
	MaxUdpBufferSize     = 64 * 1024
	MaxTcpBufferSize     = 16 * 1024
)

// BufferPool hands out fixed-size byte slices. Slice pointers are pooled
// so that Put does not allocate.
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool(size int) *BufferPool {
	bp := new(BufferPool)
	bp.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return bp
}

func (bp *BufferPool) Get() *[]byte {
	return bp.pool.Get().(*[]byte)
}

func (bp *BufferPool) Put(buf *[]byte) {
	bp.pool.Put(buf)
}
