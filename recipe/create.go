package recipe

import "context"

// Create runs every lifecycle step in the order the package manager does.
// It stops at the first failing step.
func (r *Recipe) Create(ctx context.Context) error {
	steps := []func() error{
		r.SetName,
		r.SetVersion,
		r.Requirements,
		func() error { return r.Generate(ctx) },
		r.Package,
		r.PackageInfo,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
