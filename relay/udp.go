package relay

import (
	"net"
	"sync"
	"time"

	"github.com/josexy/sockswire/bufferpool"
	"github.com/josexy/sockswire/socks5"
)

const udpPacketTimeout = 30 * time.Second

var udpPool = bufferpool.NewBufferPool(bufferpool.MaxUdpBufferSize)

// RelaySocksUDP pumps datagrams between a SOCKS5 client and the outside
// world for one UDP association. Client datagrams carry the relay
// header and are unwrapped before forwarding; datagrams from remote
// peers get a header prepended. Fragmented datagrams (FRAG != 0) are
// dropped, reassembly is not this layer's business.
//
// The source address of the first client datagram is pinned as the
// association peer. The call returns when either socket fails or stays
// idle past the packet timeout.
func RelaySocksUDP(clientConn, remoteConn net.PacketConn) error {
	var once sync.Once
	clientAddrCh := make(chan net.Addr, 1)
	errCh := make(chan error, 2)

	defer clientConn.Close()
	defer remoteConn.Close()

	// client -> remote
	go func() {
		buf := udpPool.Get()
		defer udpPool.Put(buf)
		for {
			clientConn.SetDeadline(time.Now().Add(udpPacketTimeout))
			n, srcAddr, err := clientConn.ReadFrom(*buf)
			if err != nil {
				close(clientAddrCh)
				errCh <- err
				return
			}
			once.Do(func() { clientAddrCh <- srcAddr })

			hdr, err := socks5.ParseUDPHeader((*buf)[:n])
			if err != nil || hdr.Frag != 0 {
				continue
			}
			targetAddr, err := net.ResolveUDPAddr("udp", hdr.Addr.String())
			if err != nil {
				continue
			}
			remoteConn.WriteTo(hdr.Payload, targetAddr)
		}
	}()

	// remote -> client
	go func() {
		clientAddr, ok := <-clientAddrCh
		if !ok {
			return
		}

		buf := udpPool.Get()
		defer udpPool.Put(buf)
		pkt := udpPool.Get()
		defer udpPool.Put(pkt)
		for {
			remoteConn.SetDeadline(time.Now().Add(udpPacketTimeout))
			n, fromAddr, err := remoteConn.ReadFrom(*buf)
			if err != nil {
				errCh <- err
				return
			}
			from, err := socks5.ParseAddrString(fromAddr.String())
			if err != nil {
				continue
			}
			hdr := socks5.UDPHeader{Addr: from, Payload: (*buf)[:n]}
			clientConn.WriteTo(hdr.AppendTo((*pkt)[:0]), clientAddr)
		}
	}()
	return <-errCh
}
