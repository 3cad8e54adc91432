package main

import (
	"github.com/mathieufitzgerald/matchain/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.MAIN)
