package xsd

import (
	"io/fs"

	"github.com/ands/rifcs/internal/parser"
)

// ResolveKind identifies the kind of schema resolution request.
type ResolveKind = parser.ResolveKind

const (
	ResolveInclude ResolveKind = parser.ResolveInclude
	ResolveImport  ResolveKind = parser.ResolveImport
)

// ResolveRequest describes a schema resolution request.
type ResolveRequest = parser.ResolveRequest

// Resolver resolves schema documents into readers and canonical system IDs.
type Resolver = parser.Resolver

// ResolverFunc adapts a function to Resolver.
type ResolverFunc = parser.ResolverFunc

// NewFSResolver returns a Resolver reading relative locations from fsys.
func NewFSResolver(fsys fs.FS) Resolver {
	return parser.NewFSResolver(fsys)
}
