package recipe

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// readMetadata reads the "<name>:<version>" sidecar file.
func (r *Recipe) readMetadata() (name, version string, err error) {
	path := r.sidecarPath()
	b, err := afero.ReadFile(r.fs, path)
	if err != nil {
		err = wrapRecipeError(err)
		return
	}
	fields := strings.Split(string(b), ":")
	if len(fields) < 2 {
		err = fmt.Errorf("%w: %s: want <name>:<version>", ErrInvalidFormat, path)
		return
	}
	name = strings.TrimSpace(fields[0])
	version = strings.TrimSpace(fields[1])
	if name == "" || version == "" {
		err = fmt.Errorf("%w: %s: empty name or version", ErrInvalidFormat, path)
	}
	return
}

// SetName sets Name from the sidecar file.
func (r *Recipe) SetName() error {
	return r.step("set_name", func() error {
		name, _, err := r.readMetadata()
		if err != nil {
			return err
		}
		r.Name = name
		r.logger.Debug().Str("name", name).Msg("Name resolved")
		return nil
	})
}

// SetVersion sets Version from the sidecar file.
func (r *Recipe) SetVersion() error {
	return r.step("set_version", func() error {
		_, version, err := r.readMetadata()
		if err != nil {
			return err
		}
		r.Version = version
		r.logger.Debug().Str("version", version).Msg("Version resolved")
		return nil
	})
}
