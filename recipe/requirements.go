package recipe

import "github.com/exqudens/usbrecipe/upstream"

// LibUSB is the only dependency of the package. Its headers are part of the
// public API, so consumers need them too.
var LibUSB = upstream.Requirement{
	Ref:               upstream.Reference{Name: "libusb", Version: "1.0.26"},
	TransitiveHeaders: true,
}

// Requirements declares the package dependencies.
func (r *Recipe) Requirements() error {
	return r.step("requirements", func() error {
		r.Requires = []upstream.Requirement{LibUSB}
		return nil
	})
}
