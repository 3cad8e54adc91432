package blockchain

import (
	"github.com/mathieufitzgerald/matchain/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.CHAN)
