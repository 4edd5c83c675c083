// Package prefix extracts the value that follows a fixed prefix in command
// output.
package prefix

import (
	"errors"
	"strings"
)

var ErrInvalidFormat = errors.New("parse error: invalid format")

// conan --version prints "Conan version 2.3.0"
const ConanVersionPrefix = "Conan version "

type Parser struct {
	s      string
	prefix string
}

func newParser(s, prefix string) *Parser {
	return &Parser{s: strings.TrimSpace(s), prefix: prefix}
}

func (l *Parser) Parse() (content string, err error) {
	result := strings.TrimPrefix(l.String(), l.prefix)
	if result == l.String() {
		err = ErrInvalidFormat
		return
	}
	content = strings.TrimSpace(result)
	return
}

func (l *Parser) MustParse() (content string) {
	content, err := l.Parse()
	if err != nil {
		panic(err)
	}
	return
}

func (l *Parser) String() string {
	return l.s
}

// NewConanVersionParser parses the output of `conan --version`.
func NewConanVersionParser(content string) *Parser {
	return newParser(content, ConanVersionPrefix)
}
