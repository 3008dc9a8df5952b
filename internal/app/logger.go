package app

import "go.uber.org/zap"

var logger = zap.NewNop().Sugar()

// SetLogger installs the process logger. Tests leave the no-op default.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}
