// Package di provides dependency injection container
package di

import (
	"log/slog"

	"github.com/ssargent/roster/pkg/session"
)

// SessionFactory opens an editing session
type SessionFactory func(opts session.Options) (*session.Session, error)

// Container holds all the dependencies for the application
type Container struct {
	sessionFactory SessionFactory
	logger         *slog.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{
		sessionFactory: session.Open,
		logger:         logger,
	}
}

// GetSessionFactory returns the session factory
func (c *Container) GetSessionFactory() SessionFactory {
	return c.sessionFactory
}

// SetSessionFactory allows overriding the session factory (for testing)
func (c *Container) SetSessionFactory(factory SessionFactory) {
	c.sessionFactory = factory
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// SetLogger replaces the application logger
func (c *Container) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// OpenSession opens a session through the factory, filling in the logger
// when opts has none
func (c *Container) OpenSession(opts session.Options) (*session.Session, error) {
	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	return c.sessionFactory(opts)
}
