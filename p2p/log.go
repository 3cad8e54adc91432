package p2p

import (
	"github.com/mathieufitzgerald/matchain/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.PEER)
