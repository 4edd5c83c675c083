package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidReference = errors.New("upstream: invalid reference")

// Reference identifies a package in the remote repository, e.g. libusb/1.0.26.
type Reference struct {
	Name    string
	Version string
}

// ParseReference parses a "name/version" reference.
// A recipe revision ("#rrev") or user/channel suffix is dropped.
func ParseReference(ref string) (Reference, error) {
	ref, _, _ = strings.Cut(strings.TrimSpace(ref), "#")
	ref, _, _ = strings.Cut(ref, "@")

	name, version, ok := strings.Cut(ref, "/")
	if !ok || name == "" || version == "" {
		return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return Reference{Name: name, Version: version}, nil
}

func (r Reference) String() string {
	return r.Name + "/" + r.Version
}

// Requirement is a dependency declared by the recipe.
type Requirement struct {
	Ref Reference
	// TransitiveHeaders makes the dependency's headers visible to consumers
	// of this package.
	TransitiveHeaders bool
}

func (r Requirement) String() string {
	return r.Ref.String()
}

// Dependency describes a resolved upstream package, as reported by the
// package manager after installation.
type Dependency struct {
	Ref           Reference
	PackageFolder string
	BinDirs       []string
	Properties    map[string]string
}

// Property returns the cpp_info property with the given name.
func (d Dependency) Property(name string) (string, bool) {
	v, ok := d.Properties[name]
	return v, ok
}

// Resolver turns the declared requirements into resolved dependencies.
// The returned order is the package manager's own iteration order and must be kept.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, requires []Requirement) ([]Dependency, error)
}
