package common

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// InvokeCloser closes closer if it is set and logs a failure, for use in defer.
func InvokeCloser(closer io.Closer) {
	if closer != nil {
		if err := closer.Close(); err != nil {
			log.Warnf("failed to close %v", err)
		}
	}
}
