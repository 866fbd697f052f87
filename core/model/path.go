package model

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrEmptyPath     = errors.New("empty path")
	ErrMalformedPath = errors.New("malformed path")
)

// Path addresses an account, a container or an object in the listing
// hierarchy. Object set implies Container set implies Account set.
type Path struct {
	Account   string
	Container string
	Object    string
}

// ParsePath normalizes one input line into a Path. The line is
// percent-decoded, an optional leading slash is stripped and the remainder is
// split into at most three segments, so slashes inside an object name are
// kept as part of the name.
func ParsePath(line string) (Path, error) {
	line = strings.TrimSpace(line)

	decoded, err := url.PathUnescape(line)
	if err != nil {
		return Path{}, err
	}

	decoded = strings.TrimPrefix(decoded, "/")
	if decoded == "" {
		return Path{}, ErrEmptyPath
	}

	parts := strings.SplitN(decoded, "/", 3)
	p := Path{Account: parts[0]}
	if len(parts) > 1 {
		p.Container = parts[1]
	}
	if len(parts) > 2 {
		p.Object = parts[2]
	}

	if p.Account == "" || (p.Object != "" && p.Container == "") || (p.Container == "" && len(parts) > 1) {
		return Path{}, ErrMalformedPath
	}

	return p, nil
}

func (p Path) String() string {
	s := "/" + p.Account
	if p.Container != "" {
		s += "/" + p.Container
	}
	if p.Object != "" {
		s += "/" + p.Object
	}

	return s
}
