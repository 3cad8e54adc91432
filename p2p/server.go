package p2p

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/blockchain"
	"github.com/mathieufitzgerald/matchain/config"
	"github.com/mathieufitzgerald/matchain/mempool"
	"github.com/mathieufitzgerald/matchain/util/panics"
	"github.com/mathieufitzgerald/matchain/version"
	"github.com/mathieufitzgerald/matchain/wire"
)

// connectTimeout is the timeout applied to outbound peer dials.
const connectTimeout = time.Second * 30

var spawn = panics.GoroutineWrapperFunc(log)

// Server is the peer-to-peer boundary of the node. It listens for inbound
// connections, dials the configured seed nodes, feeds received blocks and
// transactions to the chain and the memory pool, and broadcasts newly
// accepted ones. The consensus rules live entirely behind ProcessBlock; the
// server only frames and routes.
type Server struct {
	cfg    *config.Config
	chain  *blockchain.BlockChain
	txPool *mempool.TxPool

	listener net.Listener

	peersMtx sync.Mutex
	peers    map[string]*Peer

	quit chan struct{}
}

// NewServer returns a new p2p server which routes between the given chain,
// the given memory pool and the network.
func NewServer(cfg *config.Config, chain *blockchain.BlockChain, txPool *mempool.TxPool) *Server {
	return &Server{
		cfg:    cfg,
		chain:  chain,
		txPool: txPool,
		peers:  make(map[string]*Peer),
		quit:   make(chan struct{}),
	}
}

// Start begins listening for peer connections and launches the seed-node
// discovery loop. Newly accepted blocks are broadcast to every connected
// peer for as long as the server runs.
func (s *Server) Start() error {
	listenAddr := net.JoinHostPort("", strconv.Itoa(int(s.cfg.P2PPort)))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", listenAddr)
	}
	s.listener = listener
	log.Infof("P2P server listening on %s", listener.Addr())

	s.chain.SubscribeBlockAccepted(func(block *wire.MsgBlock) {
		s.BroadcastBlock(block)
	})

	spawn(s.acceptLoop)
	spawn(s.discoveryLoop)
	return nil
}

// Stop shuts the listener down and disconnects every peer.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.peersMtx.Lock()
	defer s.peersMtx.Unlock()
	for _, peer := range s.peers {
		peer.close()
	}
	s.peers = make(map[string]*Peer)
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ConnectedCount returns the number of currently connected peers.
func (s *Server) ConnectedCount() int {
	s.peersMtx.Lock()
	defer s.peersMtx.Unlock()
	return len(s.peers)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			log.Warnf("Failed to accept connection: %s", err)
			continue
		}
		peer := newPeer(conn, conn.RemoteAddr().String(), true)
		if !s.addPeer(peer) {
			peer.close()
			continue
		}
		log.Infof("New peer %s", peer)
		spawn(func() { s.peerReadLoop(peer) })
	}
}

// ConnectToPeer dials the given address, through the configured proxy when
// one is set, registers the peer and starts reading from it. Dialing an
// address that is already connected is a no-op.
func (s *Server) ConnectToPeer(addr string) error {
	s.peersMtx.Lock()
	_, alreadyConnected := s.peers[addr]
	s.peersMtx.Unlock()
	if alreadyConnected {
		return nil
	}

	conn, err := s.cfg.Dial("tcp", addr, connectTimeout)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %s", addr)
	}
	peer := newPeer(conn, addr, false)
	if !s.addPeer(peer) {
		peer.close()
		return nil
	}
	log.Infof("Connected to peer %s", addr)

	if err := s.sendVersion(peer); err != nil {
		log.Warnf("Failed to send version to %s: %s", addr, err)
	}
	spawn(func() { s.peerReadLoop(peer) })
	return nil
}

// addPeer registers the peer unless one with the same address already
// exists or the server is shutting down.
func (s *Server) addPeer(peer *Peer) bool {
	select {
	case <-s.quit:
		return false
	default:
	}
	s.peersMtx.Lock()
	defer s.peersMtx.Unlock()
	if _, ok := s.peers[peer.Addr()]; ok {
		return false
	}
	s.peers[peer.Addr()] = peer
	return true
}

func (s *Server) removePeer(peer *Peer) {
	s.peersMtx.Lock()
	defer s.peersMtx.Unlock()
	delete(s.peers, peer.Addr())
}

func (s *Server) sendVersion(peer *Peer) error {
	msg, err := NewMessage(MessageTypeVersion, &VersionPayload{
		Version: version.Version(),
		Height:  s.chain.Height(),
	})
	if err != nil {
		return err
	}
	return peer.sendMessage(msg)
}

// peerReadLoop decodes envelopes from the peer until the connection drops.
// Malformed envelopes and rule violations are logged and skipped; they never
// take the node down.
func (s *Server) peerReadLoop(peer *Peer) {
	defer func() {
		peer.close()
		s.removePeer(peer)
		log.Infof("Peer %s disconnected", peer)
	}()

	dec := json.NewDecoder(peer.conn)
	for {
		var msg Message
		if err := dec.Decode(&msg); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debugf("Failed to decode message from %s: %s", peer, err)
			}
			return
		}
		s.handleMessage(peer, &msg)
	}
}

func (s *Server) handleMessage(peer *Peer, msg *Message) {
	switch msg.Type {
	case MessageTypeVersion:
		var payload VersionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Debugf("Malformed version payload from %s: %s", peer, err)
			return
		}
		log.Infof("Peer %s runs version %s at height %d", peer, payload.Version, payload.Height)
		if peer.Inbound() {
			if err := s.sendVersion(peer); err != nil {
				log.Warnf("Failed to send version to %s: %s", peer, err)
			}
		}

	case MessageTypeBlock:
		if err := s.SubmitBlock(msg.Payload); err != nil {
			var ruleErr blockchain.RuleError
			if errors.As(err, &ruleErr) {
				log.Debugf("Rejected block from %s: %v", peer, err)
			} else {
				log.Warnf("Failed to process block from %s: %s", peer, err)
			}
		}

	case MessageTypeTx:
		if err := s.submitTransactionFrom(peer, msg.Payload); err != nil {
			log.Debugf("Rejected transaction from %s: %v", peer, err)
		}

	default:
		log.Debugf("Ignoring message of unknown type %q from %s", msg.Type, peer)
	}
}

// SubmitBlock deserializes a block payload and submits it to the chain. It
// is the inbound half of the adapter contract; acceptance triggers the
// outbound broadcast through the chain's accepted-block subscription.
func (s *Server) SubmitBlock(raw []byte) error {
	var payload BlockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errors.Wrap(err, "failed to unmarshal block payload")
	}
	if payload.Block == nil {
		return errors.New("block payload carries no block")
	}
	return s.chain.ProcessBlock(payload.Block)
}

// SubmitTransaction deserializes a transaction payload and submits it to the
// memory pool.
func (s *Server) SubmitTransaction(raw []byte) error {
	return s.submitTransactionFrom(nil, raw)
}

func (s *Server) submitTransactionFrom(origin *Peer, raw []byte) error {
	var payload TxPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errors.Wrap(err, "failed to unmarshal transaction payload")
	}
	if payload.Transaction == nil {
		return errors.New("transaction payload carries no transaction")
	}
	if err := s.txPool.ProcessTransaction(payload.Transaction); err != nil {
		return err
	}
	s.broadcast(MessageTypeTx, &payload, origin)
	return nil
}

// BroadcastBlock relays the given block to every connected peer. A peer that
// already has it rejects the duplicate as stale.
func (s *Server) BroadcastBlock(block *wire.MsgBlock) {
	s.broadcast(MessageTypeBlock, &BlockPayload{Block: block}, nil)
}

// BroadcastTx relays the given transaction to every connected peer.
func (s *Server) BroadcastTx(tx *wire.MsgTx) {
	s.broadcast(MessageTypeTx, &TxPayload{Transaction: tx}, nil)
}

func (s *Server) broadcast(msgType MessageType, payload interface{}, except *Peer) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Errorf("Failed to build %s broadcast: %s", msgType, err)
		return
	}

	s.peersMtx.Lock()
	peers := make([]*Peer, 0, len(s.peers))
	for _, peer := range s.peers {
		if peer == except {
			continue
		}
		peers = append(peers, peer)
	}
	s.peersMtx.Unlock()

	for _, peer := range peers {
		if err := peer.sendMessage(msg); err != nil {
			log.Warnf("Failed to send %s to %s: %s", msgType, peer, err)
		}
	}
	if len(peers) > 0 {
		log.Debugf("Relayed %s to %d peer(s)", msgType, len(peers))
	}
}

// String describes the server for logs.
func (s *Server) String() string {
	return fmt.Sprintf("p2p server on port %d", s.cfg.P2PPort)
}
