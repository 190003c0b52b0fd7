package api

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is cancelled
	StartServer(ctx context.Context, open StoreOpener, config ServerConfig, logger logrus.FieldLogger) error
}
