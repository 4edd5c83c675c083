package versions

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

var ErrInvalidConstraint = errors.New("versions: invalid constraint")

func fillVersionPrefix(version string) string {
	if version == "" || version[0] == 'v' {
		return version
	}
	return "v" + version
}

// ToSemVer converts a C-style version ("2.0", "1.0.26") to canonical semver.
// The input is returned unchanged if it cannot be converted.
func ToSemVer(version string) string {
	semver := semver.Canonical(fillVersionPrefix(version))
	if semver == "" {
		return version
	}
	return semver
}

// Satisfies reports whether version matches a constraint such as ">=2.0".
// Supported operators are >=, >, <=, <, == and =; a bare version means ==.
func Satisfies(version, constraint string) (bool, error) {
	constraint = strings.TrimSpace(constraint)

	op := "=="
	for _, candidate := range []string{">=", "<=", "==", ">", "<", "="} {
		if strings.HasPrefix(constraint, candidate) {
			op = candidate
			constraint = strings.TrimSpace(strings.TrimPrefix(constraint, candidate))
			break
		}
	}

	want := ToSemVer(constraint)
	if !semver.IsValid(want) {
		return false, fmt.Errorf("%w: %q", ErrInvalidConstraint, constraint)
	}
	got := ToSemVer(version)
	if !semver.IsValid(got) {
		return false, fmt.Errorf("versions: invalid version %q", version)
	}

	cmp := semver.Compare(got, want)
	switch op {
	case ">=":
		return cmp >= 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	case "<":
		return cmp < 0, nil
	default:
		return cmp == 0, nil
	}
}
