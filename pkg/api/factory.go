package api

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// NewServerStarter creates the default server starter
func NewServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(
	ctx context.Context,
	open StoreOpener,
	config ServerConfig,
	logger logrus.FieldLogger,
) error {
	return StartServer(ctx, open, config, logger)
}
