package box2d

import (
	"io"
	"log"
	"sync"
)

var (
	b2LogMutex sync.Mutex
	b2Logger   = log.New(io.Discard, "box2d: ", log.LstdFlags)
)

// B2SetLogger replaces the logger used by B2Log. Passing nil silences logging.
func B2SetLogger(logger *log.Logger) {
	b2LogMutex.Lock()
	defer b2LogMutex.Unlock()

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	b2Logger = logger
}

// Logging function.
func B2Log(format string, args ...interface{}) {
	b2LogMutex.Lock()
	logger := b2Logger
	b2LogMutex.Unlock()

	logger.Printf(format, args...)
}
