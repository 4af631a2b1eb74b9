package vault

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "[vault] ", log.LstdFlags)

// SetLogger routes the accounting trace (holdings, fee charges, targets) to l.
// Passing nil silences it again.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}
