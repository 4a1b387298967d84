package parser

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// ResolveKind identifies the directive that triggered a resolution request.
type ResolveKind uint8

const (
	ResolveInclude ResolveKind = iota
	ResolveImport
)

func (k ResolveKind) String() string {
	if k == ResolveImport {
		return "import"
	}
	return "include"
}

// ResolveRequest describes one include or import to resolve.
type ResolveRequest struct {
	BaseSystemID   string
	SchemaLocation string
	// Namespace is the namespace attribute of an import.
	Namespace string
	Kind      ResolveKind
}

// Resolver resolves schema documents into readers and canonical system IDs.
type Resolver interface {
	Resolve(req ResolveRequest) (doc io.ReadCloser, systemID string, err error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(req ResolveRequest) (io.ReadCloser, string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(req ResolveRequest) (io.ReadCloser, string, error) {
	return f(req)
}

// FSResolver resolves schema documents from an fs.FS with strict path validation.
type FSResolver struct {
	fsys fs.FS
}

// NewFSResolver creates a resolver backed by the provided filesystem.
func NewFSResolver(fsys fs.FS) *FSResolver {
	return &FSResolver{fsys: fsys}
}

// Resolve implements Resolver.
func (r *FSResolver) Resolve(req ResolveRequest) (io.ReadCloser, string, error) {
	if r == nil || r.fsys == nil {
		return nil, "", fmt.Errorf("no filesystem configured")
	}
	if req.SchemaLocation == "" {
		return nil, "", fs.ErrNotExist
	}
	systemID, err := ResolveSystemID(req.BaseSystemID, req.SchemaLocation)
	if err != nil {
		return nil, "", err
	}
	f, err := r.fsys.Open(systemID)
	if err != nil {
		return nil, "", err
	}
	return f, systemID, nil
}

// ResolveSystemID joins a relative schema location onto the directory of the
// including document. Locations that escape the root are rejected.
func ResolveSystemID(baseSystemID, schemaLocation string) (string, error) {
	if strings.Contains(schemaLocation, "\\") {
		return "", fmt.Errorf("schema location contains backslash: %q", schemaLocation)
	}
	if strings.HasPrefix(schemaLocation, "/") {
		return "", fmt.Errorf("schema location must be relative: %q", schemaLocation)
	}
	if schemaLocation == "" {
		return "", fmt.Errorf("schema location is empty")
	}
	if slices.Contains(strings.Split(schemaLocation, "/"), "") {
		return "", fmt.Errorf("invalid schema location segment: %q", schemaLocation)
	}
	joined := path.Clean(schemaLocation)
	if dir := baseDir(baseSystemID); dir != "" {
		joined = path.Clean(dir + "/" + schemaLocation)
	}
	if joined == "." {
		return "", fmt.Errorf("schema location is empty")
	}
	if strings.HasPrefix(joined, "../") || joined == ".." {
		return "", fmt.Errorf("schema location escapes root: %q", schemaLocation)
	}
	return joined, nil
}

func baseDir(systemID string) string {
	if systemID == "" || strings.Contains(systemID, "\\") {
		return ""
	}
	idx := strings.LastIndex(systemID, "/")
	if idx == -1 {
		return ""
	}
	return systemID[:idx]
}
