package logger

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

// SubsystemTags is an enum of all sub system tags.
var SubsystemTags = struct {
	MAIN,
	CHAN,
	MINR,
	PEER,
	TXMP,
	CNFG string
}{
	MAIN: "MAIN",
	CHAN: "CHAN",
	MINR: "MINR",
	PEER: "PEER",
	TXMP: "TXMP",
	CNFG: "CNFG",
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]*Logger{}

// Get returns a logger of a specific sub system. The same logger is returned
// for repeated calls with the same tag.
func Get(tag string) (*Logger, error) {
	if logger, ok := subsystemLoggers[tag]; ok {
		return logger, nil
	}
	logger := BackendLog.Logger(tag)
	subsystemLoggers[tag] = logger
	return logger, nil
}

// InitLogs attaches the log file and error log file to the backend log and
// starts it.
func InitLogs(logFile, errLogFile string) {
	err := BackendLog.AddLogWriter(os.Stdout, LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding stdout to the logger: %s", err)
		os.Exit(1)
	}
	err = BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", errLogFile, LevelWarn, err)
		os.Exit(1)
	}
	err = BackendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %s ", err)
		os.Exit(1)
	}
}

// SetLogLevels sets the logging level for all of the subsystems.
func SetLogLevels(level string) error {
	lvl, ok := LevelFromString(level)
	if !ok {
		return errors.Errorf("invalid log level %s", level)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(lvl)
	}
	return nil
}
