// Package docrouter mounts the document API on a go-router server.
package docrouter
