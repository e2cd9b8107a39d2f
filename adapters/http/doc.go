// Package dochttp serves the document API on net/http.
package dochttp
