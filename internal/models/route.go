package models

import "strings"

// Route identifies the receiver addressed by a request path.
type Route struct {
	Receiver string
	ID       string
}

// ParseRoute extracts the receiver name and the optional receiver id from a path of the
// form <prefix>/<receiver>[/<id>]. It reports false when the path does not address a receiver.
func ParseRoute(prefix, path string) (Route, bool) {
	prefix = "/" + strings.Trim(prefix, "/")
	path = "/" + strings.Trim(path, "/")
	if prefix != "/" {
		if path != prefix && !strings.HasPrefix(path, prefix+"/") {
			return Route{}, false
		}
		path = strings.TrimPrefix(path, prefix)
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return Route{Receiver: parts[0]}, true
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return Route{Receiver: parts[0], ID: parts[1]}, true
	default:
		return Route{}, false
	}
}
