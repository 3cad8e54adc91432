package p2p

import (
	"time"
)

// discoveryInterval is how often the server retries the configured seed
// nodes.
const discoveryInterval = time.Second * 30

// discoveryLoop periodically dials every configured seed node that is not
// currently connected. Seed nodes that are down are retried on the next
// tick.
func (s *Server) discoveryLoop() {
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()

	for {
		for _, addr := range s.cfg.SeedNodes {
			select {
			case <-s.quit:
				return
			default:
			}
			if err := s.ConnectToPeer(addr); err != nil {
				log.Debugf("Seed node %s unreachable: %s", addr, err)
			}
		}

		select {
		case <-s.quit:
			return
		case <-ticker.C:
		}
	}
}
