// Package di provides dependency injection container
package di

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/progress/pkg/api" //nolint:depguard
	"github.com/ssargent/progress/pkg/config"
	"github.com/ssargent/progress/pkg/logging"
	"github.com/ssargent/progress/pkg/storage"
	"github.com/ssargent/progress/pkg/store"
)

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	logger        *logrus.Logger
	logOutput     io.Writer
	clock         store.Clock
	serverStarter api.ServerStarter
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		logOutput:     os.Stderr,
		serverStarter: api.NewServerStarter(),
	}
}

// Configure installs the loaded configuration and builds the logger from it
func (c *Container) Configure(cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging, c.logOutput)
	if err != nil {
		return err
	}
	c.config = cfg
	c.logger = logger
	return nil
}

// Config returns the active configuration
func (c *Container) Config() *config.Config {
	if c.config == nil {
		return config.DefaultConfig()
	}
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *logrus.Logger {
	if c.logger == nil {
		return logging.Discard()
	}
	return c.logger
}

// Clock returns the clock used for calendar-day rules. Unless overridden it reads the
// wall clock in the configured timezone.
func (c *Container) Clock() (store.Clock, error) {
	if c.clock != nil {
		return c.clock, nil
	}
	loc, err := c.Config().Location()
	if err != nil {
		return nil, err
	}
	return store.SystemClock{Location: loc}, nil
}

// OpenStore opens the task store for reading and writing. When history is enabled the
// archive stays open until the returned close function is called.
func (c *Container) OpenStore() (*store.Store, func() error, error) {
	if !c.Config().History.Enabled {
		st, err := c.OpenStoreWithArchive(nil)
		return st, func() error { return nil }, err
	}

	archive, err := c.OpenArchive()
	if err != nil {
		return nil, nil, err
	}

	st, err := c.OpenStoreWithArchive(archive)
	if err != nil {
		return nil, nil, errors.Join(err, archive.Close())
	}
	return st, archive.Close, nil
}

// OpenStoreWithArchive opens the task store and archives superseded contents into
// archive, which may be nil. The caller keeps ownership of the archive.
func (c *Container) OpenStoreWithArchive(archive *storage.Archive) (*store.Store, error) {
	clock, err := c.Clock()
	if err != nil {
		return nil, err
	}

	cfg := store.Config{
		Path:   c.Config().StorePath(),
		Clock:  clock,
		Logger: c.Logger(),
	}
	if archive != nil {
		cfg.Archive = archive
	}
	return store.Open(cfg)
}

// OpenReadOnlyStore returns an opener for the API. It never attaches the archive, so a
// running server does not hold the history lock.
func (c *Container) OpenReadOnlyStore() api.StoreOpener {
	return func() (*store.Store, error) {
		return c.OpenStoreWithArchive(nil)
	}
}

// OpenArchive opens the snapshot history
func (c *Container) OpenArchive() (*storage.Archive, error) {
	cfg := c.Config()
	if err := os.MkdirAll(cfg.HistoryPath(), 0750); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	return storage.OpenArchive(cfg.HistoryPath(), cfg.History.Limit, c.Logger().WithField("component", "history"))
}

// GetServerStarter returns the API server starter
func (c *Container) GetServerStarter() api.ServerStarter {
	return c.serverStarter
}

// SetServerStarter allows overriding the server starter (for testing)
func (c *Container) SetServerStarter(starter api.ServerStarter) {
	c.serverStarter = starter
}

// SetClock allows overriding the clock (for testing)
func (c *Container) SetClock(clock store.Clock) {
	c.clock = clock
}

// SetLogOutput redirects log output; it takes effect on the next Configure
func (c *Container) SetLogOutput(w io.Writer) {
	c.logOutput = w
}
