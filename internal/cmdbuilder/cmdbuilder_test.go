package cmdbuilder

import (
	"reflect"
	"testing"
)

func TestConanSerializer(t *testing.T) {
	builder := NewCmdBuilder(WithConanSerializer())

	builder.SetName("conan")
	builder.SetSubcommand("install")
	builder.SetArg("requires", "libusb/1.0.26")
	builder.SetArg("build", "missing")
	builder.SetArg("options", "*:shared=True")
	builder.SetArg("options", "libusb/*:enable_udev=False")

	want := []string{
		"install",
		"--requires=libusb/1.0.26",
		"--build=missing",
		"--options=*:shared=True",
		"--options=libusb/*:enable_udev=False",
	}
	if got := builder.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected args: want %v got %v", want, got)
	}

	cmd := builder.Cmd()
	if len(cmd.Args) != len(want)+1 || cmd.Args[0] != "conan" {
		t.Errorf("unexpected cmd args: %v", cmd.Args)
	}
}

func TestDefaultSerializer(t *testing.T) {
	builder := NewCmdBuilder()

	builder.SetName("conan")
	builder.SetSubcommand("graph")
	builder.SetObj("info")
	builder.SetArg("format", "json")
	builder.SetArg("version", "")

	want := "conan graph info --format json --version"
	if got := builder.String(); got != want {
		t.Errorf("unexpected command: want %s got %s", want, got)
	}
}
