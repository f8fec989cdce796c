package dupedna

import (
	"errors"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna/script"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/selector"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/storage"
)

// Error kinds returned by the service. Match with errors.Is.
var (
	ErrSourceUnavailable = storage.ErrSourceUnavailable
	ErrCatalogNotFound   = storage.ErrCatalogNotFound
	ErrOutputNotWritable = script.ErrOutputNotWritable
	ErrUndersizedCluster = selector.ErrUndersizedCluster
	ErrUnknownStrategy   = selector.ErrUnknownStrategy
	ErrInvalidThreshold  = errors.New("similarity threshold must be between 0 and 100")
)
