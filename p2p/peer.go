package p2p

import (
	"encoding/json"
	"net"
	"sync"
)

// Peer is a single connected remote node. Writes are serialized so
// concurrent broadcasts do not interleave envelopes.
type Peer struct {
	conn    net.Conn
	addr    string
	inbound bool

	sendMtx sync.Mutex
	enc     *json.Encoder
}

func newPeer(conn net.Conn, addr string, inbound bool) *Peer {
	return &Peer{
		conn:    conn,
		addr:    addr,
		inbound: inbound,
		enc:     json.NewEncoder(conn),
	}
}

// Addr returns the address the peer is keyed under.
func (p *Peer) Addr() string {
	return p.addr
}

// Inbound returns whether the remote node initiated the connection.
func (p *Peer) Inbound() bool {
	return p.inbound
}

func (p *Peer) String() string {
	direction := "outbound"
	if p.inbound {
		direction = "inbound"
	}
	return p.addr + " (" + direction + ")"
}

// sendMessage writes one envelope to the peer. The encoder terminates every
// envelope with a newline, which is the wire framing.
func (p *Peer) sendMessage(msg *Message) error {
	p.sendMtx.Lock()
	defer p.sendMtx.Unlock()
	return p.enc.Encode(msg)
}

func (p *Peer) close() {
	_ = p.conn.Close()
}
