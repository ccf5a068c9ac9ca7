package relay

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/josexy/sockswire/bufferpool"
	"golang.org/x/sync/errgroup"
)

var (
	tcpPool    = bufferpool.NewBufferPool(bufferpool.MaxTcpBufferSize)
	emptyBytes = make([]byte, 1)
)

// CopyBidirectional shuttles bytes between both connections until one
// side fails or the idle deadline passes, then closes both.
func CopyBidirectional(left, right net.Conn, ioTimeout time.Duration) error {
	if ioTimeout > 0 {
		dl := time.Now().Add(ioTimeout)
		_ = left.SetDeadline(dl)
		_ = right.SetDeadline(dl)
	}

	var g errgroup.Group
	var closeOnce sync.Once
	closeBoth := func() {
		closeOnce.Do(func() {
			_ = left.Close()
			_ = right.Close()
		})
	}
	defer closeBoth()

	g.Go(func() error {
		err := copyWithBuffer(left, right)
		closeBoth()
		return err
	})
	g.Go(func() error {
		err := copyWithBuffer(right, left)
		closeBoth()
		return err
	})
	return g.Wait()
}

// copyWithBuffer only takes a pooled buffer when neither side can
// splice the transfer itself.
func copyWithBuffer(dst io.Writer, src io.Reader) error {
	var b []byte
	if _, ok := src.(io.WriterTo); ok {
		b = emptyBytes
	} else if _, ok := dst.(io.ReaderFrom); ok {
		b = emptyBytes
	} else {
		buf := tcpPool.Get()
		defer tcpPool.Put(buf)
		b = *buf
	}
	_, err := io.CopyBuffer(dst, src, b)
	return err
}
