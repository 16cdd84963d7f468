package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/documentiulia/docvault/internal/config"
	"github.com/documentiulia/docvault/pkg/docstore"
	"github.com/documentiulia/docvault/pkg/search"
)

// Server contains the server configuration and shared dependencies handed to
// every API handler.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// DB is the database for the server.
	DB *gorm.DB

	// Store is the document store all handlers operate through.
	Store *docstore.Store

	// SearchIndex is the optional embedded full-text index; nil when search
	// is not enabled in the config.
	SearchIndex search.Index

	// Logger is the logger for the server.
	Logger hclog.Logger
}
