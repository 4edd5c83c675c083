// Package cmdbuilder assembles command lines for external tools such as conan.
package cmdbuilder

import (
	"context"
	"os/exec"
)

// Serializer renders a single key/value argument.
type Serializer func(key, value string) []string

// Option configures a CmdBuilder.
type Option func(*CmdBuilder)

type arg struct {
	key   string
	value string
}

// CmdBuilder collects the parts of a command line in the order they are set:
// name, subcommand, objects, then arguments.
type CmdBuilder struct {
	name       string
	subcommand string
	objs       []string
	args       []arg
	serializer Serializer
}

// WithConanSerializer renders arguments as --key=value, the form conan accepts for every flag.
func WithConanSerializer() Option {
	return func(c *CmdBuilder) {
		c.serializer = func(key, value string) []string {
			if value == "" {
				return []string{"--" + key}
			}
			return []string{"--" + key + "=" + value}
		}
	}
}

// WithSerializer sets a custom argument serializer.
func WithSerializer(s Serializer) Option {
	return func(c *CmdBuilder) {
		c.serializer = s
	}
}

func NewCmdBuilder(opts ...Option) *CmdBuilder {
	c := &CmdBuilder{
		// default: "--key value"
		serializer: func(key, value string) []string {
			if value == "" {
				return []string{"--" + key}
			}
			return []string{"--" + key, value}
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CmdBuilder) SetName(name string) {
	c.name = name
}

func (c *CmdBuilder) SetSubcommand(subcommand string) {
	c.subcommand = subcommand
}

// SetObj appends a positional argument placed right after the subcommand.
func (c *CmdBuilder) SetObj(obj string) {
	c.objs = append(c.objs, obj)
}

// SetArg appends an argument. Repeated keys are kept, so multi-value flags
// like --options can be set more than once.
func (c *CmdBuilder) SetArg(key, value string) {
	c.args = append(c.args, arg{key: key, value: value})
}

func (c *CmdBuilder) Name() string {
	return c.name
}

// Args returns the command line without the executable name.
func (c *CmdBuilder) Args() []string {
	var ret []string
	if c.subcommand != "" {
		ret = append(ret, c.subcommand)
	}
	ret = append(ret, c.objs...)
	for _, a := range c.args {
		ret = append(ret, c.serializer(a.key, a.value)...)
	}
	return ret
}

func (c *CmdBuilder) String() string {
	s := c.name
	for _, a := range c.Args() {
		s += " " + a
	}
	return s
}

func (c *CmdBuilder) Cmd() *exec.Cmd {
	return exec.Command(c.name, c.Args()...)
}

func (c *CmdBuilder) CmdContext(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, c.name, c.Args()...)
}
