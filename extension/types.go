package extension

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/x"
)

// Import aliases a package path so that configuration can reference payload
// types by short name.
type Import struct {
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	PkgPath string `json:"pkgPath,omitempty" yaml:"pkgPath,omitempty"`
}

// Imports represents a collection of package aliases.
type Imports []*Import

// PkgPath returns the full package path for an alias, or empty when unknown.
func (i Imports) PkgPath(pkg string) string {
	for _, item := range i {
		if item.Package == pkg {
			return item.PkgPath
		}
	}
	return ""
}

// HasPkgPath returns true when the path is already aliased.
func (i Imports) HasPkgPath(pkgPath string) bool {
	for _, item := range i {
		if item.PkgPath == pkgPath {
			return true
		}
	}
	return false
}

// Types registers the Go types specialist payloads decode into. Configuration
// and session documents reference types by name; the registry resolves them
// back to reflect types.
type Types struct {
	x.Registry
	imports Imports
}

// Register adds a data type to the registry
func (t *Types) Register(dataType *x.Type) {
	if dataType.PkgPath != "" {
		if idx := strings.LastIndex(dataType.PkgPath, "/"); idx > 0 {
			pkgPath := dataType.PkgPath[:idx]
			if !t.imports.HasPkgPath(pkgPath) {
				t.imports = append(t.imports, &Import{Package: dataType.PkgPath[idx+1:], PkgPath: dataType.PkgPath})
			}
		}
	}
	t.Registry.Register(dataType)
}

// Lookup returns a data type from the registry
func (t *Types) Lookup(dataType string, options ...Option) *x.Type {
	temp := &Types{imports: t.imports}
	for _, opt := range options {
		opt(temp)
	}

	typeModifier := ""
	if idx := strings.LastIndex(dataType, "]"); idx != -1 {
		typeModifier = dataType[:idx+1]
		dataType = dataType[idx+1:]
	}

	if idx := strings.LastIndex(dataType, "."); idx != -1 {
		var pkg, typeName string
		pkg = dataType[:idx]
		typeName = dataType[idx+1:]
		if pkgPath := temp.imports.PkgPath(pkg); pkgPath != "" {
			pkg = pkgPath
		}
		dataType = fmt.Sprintf("%s.%s", pkg, typeName)
	}
	ret := t.Registry.Lookup(dataType)
	if ret == nil {
		return nil
	}
	rType := ret.Type

	switch strings.TrimSpace(typeModifier) {
	case "[]":
		rType = reflect.SliceOf(rType)
	case "[][]":
		rType = reflect.SliceOf(reflect.SliceOf(rType))
	case "map[string]":
		rType = reflect.MapOf(reflect.TypeOf(""), rType)
	case "map[string][]":
		rType = reflect.MapOf(reflect.TypeOf(""), reflect.SliceOf(rType))
	}
	if rType != ret.Type {
		return x.NewType(rType)
	}
	return ret
}

// Imports returns the accumulated package aliases.
func (t *Types) Imports() Imports {
	return t.imports
}

// Option customizes a Lookup call.
type Option func(*Types)

// WithImports overrides the alias table for a single lookup.
func WithImports(imports Imports) Option {
	return func(t *Types) {
		t.imports = imports
	}
}

// NewTypes creates a new type registry.
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{
		Registry: *x.NewRegistry(options...),
	}
}
