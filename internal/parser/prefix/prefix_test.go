package prefix

import (
	"errors"
	"testing"
)

func TestConanVersionPrefix(t *testing.T) {
	t.Run("conanversion-valid", func(t *testing.T) {
		p := NewConanVersionParser("Conan version 2.3.0\n").MustParse()
		if p != "2.3.0" {
			t.Errorf("unexpected result: want: %s got %s", "2.3.0", p)
		}
	})
	t.Run("conanversion-invalid", func(t *testing.T) {
		_, err := NewConanVersionParser("conan: command not found").Parse()
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("unexpected error: want: %v got %v", ErrInvalidFormat, err)
		}
	})
	t.Run("conanversion-mustparse-panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("unexpected behavior: no panic")
			}
		}()
		NewConanVersionParser("2.3.0").MustParse()
	})
}
