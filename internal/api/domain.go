package api

import (
	"github.com/skinatlas/skinrest/internal/classifications"
	"github.com/skinatlas/skinrest/internal/images"
	"github.com/skinatlas/skinrest/internal/metrics"
	"github.com/skinatlas/skinrest/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users           users.System
	Images          images.System
	Classifications classifications.System
	Metrics         metrics.System
}

// NewDomain creates all domain systems from the API runtime. The metrics
// aggregator reads the other three systems through its projection interfaces.
func NewDomain(runtime *Runtime) *Domain {
	usersSystem := users.New(
		runtime.Database.Connection(),
		runtime.Tokens,
		runtime.Logger,
	)

	ledgerSystem := classifications.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	imagesSystem := images.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
	)

	metricsSystem := metrics.New(
		usersSystem,
		imagesSystem,
		ledgerSystem,
		runtime.Logger,
	)

	return &Domain{
		Users:           usersSystem,
		Images:          imagesSystem,
		Classifications: ledgerSystem,
		Metrics:         metricsSystem,
	}
}
