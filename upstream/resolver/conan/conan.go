package conan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/exqudens/usbrecipe/internal/cmdbuilder"
	"github.com/exqudens/usbrecipe/internal/config"
	"github.com/exqudens/usbrecipe/internal/logging"
	"github.com/exqudens/usbrecipe/internal/parser/prefix"
	"github.com/exqudens/usbrecipe/internal/versions"
	"github.com/exqudens/usbrecipe/upstream"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	ErrPackageNotFound  = errors.New("conan: package not found")
	ErrUnsupportedConan = errors.New("conan: unsupported conan version")
)

// root node recipes which describe the consumer rather than a dependency
var consumerRecipes = map[string]struct{}{
	"Cli":      {},
	"Consumer": {},
	"Virtual":  {},
}

func isConsumer(id string, node graphNode) bool {
	if id == "0" || node.Ref == "" || node.Ref == "conanfile" {
		return true
	}
	_, ok := consumerRecipes[node.Recipe]
	return ok
}

// nodeIDs returns graph node ids in the order conan created them.
// The ids are decimal strings, so "10" must sort after "9".
func nodeIDs(nodes map[string]graphNode) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})
	return ids
}

func stringProperties(props map[string]any) map[string]string {
	ret := make(map[string]string, len(props))
	for k, v := range props {
		if s, ok := v.(string); ok {
			ret[k] = s
		}
	}
	return ret
}

func toDependency(node graphNode) (upstream.Dependency, error) {
	ref, err := upstream.ParseReference(node.Ref)
	if err != nil {
		return upstream.Dependency{}, err
	}
	if node.Name != "" {
		ref.Name = node.Name
	}
	if node.Version != "" {
		ref.Version = node.Version
	}

	dep := upstream.Dependency{
		Ref:           ref,
		PackageFolder: node.PackageFolder,
		Properties:    map[string]string{},
	}

	root, ok := node.CppInfo["root"]
	if !ok {
		return dep, nil
	}
	dep.Properties = stringProperties(root.Properties)
	for _, dir := range root.BinDirs {
		if !filepath.IsAbs(dir) && node.PackageFolder != "" {
			dir = filepath.Join(node.PackageFolder, dir)
		}
		dep.BinDirs = append(dep.BinDirs, dir)
	}
	return dep, nil
}

// ParseGraph extracts host dependencies from conan's JSON graph, in node order.
// The consumer node and build-context (tool) requirements are skipped.
func ParseGraph(output []byte) ([]upstream.Dependency, error) {
	var m graphOutput
	if err := json.Unmarshal(output, &m); err != nil {
		return nil, fmt.Errorf("conan: cannot parse graph: %w", err)
	}

	var deps []upstream.Dependency
	for _, id := range nodeIDs(m.Graph.Nodes) {
		node := m.Graph.Nodes[id]
		// tool requirements carry no cmake_file_name and are not linked against
		if isConsumer(id, node) || node.Context == "build" {
			continue
		}
		dep, err := toDependency(node)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// checkRequired makes sure every requirement shows up in the resolved graph.
func checkRequired(requires []upstream.Requirement, deps []upstream.Dependency) error {
	found := make(map[string]struct{}, len(deps))
	for _, dep := range deps {
		found[dep.Ref.Name] = struct{}{}
	}
	for _, req := range requires {
		if _, ok := found[req.Ref.Name]; !ok {
			return fmt.Errorf("%w: %s", ErrPackageNotFound, req)
		}
	}
	return nil
}

// conanResolver implements the upstream.Resolver interface by running conan install.
// Conan downloads or builds the requirements and reports where it put them.
type conanResolver struct {
	config       config.Conan
	outputFolder string
	logger       zerolog.Logger
}

// NewConanResolver creates a resolver which installs requirements with conan.
// Generator files conan produces go to outputFolder.
func NewConanResolver(cfg config.Conan, outputFolder string, logger zerolog.Logger) upstream.Resolver {
	return &conanResolver{
		config:       cfg,
		outputFolder: outputFolder,
		logger:       logger,
	}
}

func (c *conanResolver) Name() string {
	return "conan"
}

func (c *conanResolver) executable() string {
	if c.config.Executable == "" {
		return "conan"
	}
	return c.config.Executable
}

func (c *conanResolver) installCommand(requires []upstream.Requirement) *cmdbuilder.CmdBuilder {
	// Build the following command
	// conan install --requires=libusb/1.0.26 --build=missing --output-folder=%s --format=json --options=*:shared=True
	builder := cmdbuilder.NewCmdBuilder(cmdbuilder.WithConanSerializer())

	builder.SetName(c.executable())
	builder.SetSubcommand("install")
	for _, req := range requires {
		builder.SetArg("requires", req.String())
	}
	if c.config.Build != "" {
		builder.SetArg("build", c.config.Build)
	}
	builder.SetArg("output-folder", c.outputFolder)
	builder.SetArg("format", "json")

	if c.config.Profile != "" {
		builder.SetArg("profile", c.config.Profile)
	}
	for _, opt := range c.config.Options {
		builder.SetArg("options", opt)
	}

	keys := make([]string, 0, len(c.config.Settings))
	for k := range c.config.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		builder.SetArg("settings", k+"="+c.config.Settings[k])
	}
	return builder
}

// Resolve installs the requirements and returns the resolved dependency graph.
func (c *conanResolver) Resolve(ctx context.Context, requires []upstream.Requirement) ([]upstream.Dependency, error) {
	builder := c.installCommand(requires)
	logging.LogCommand(c.logger, builder.Name(), builder.Args())

	cmd := builder.CmdContext(ctx)
	// conan will output install result to Stdout, output progress to Stderr
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("conan: install failed: %w", err)
	}

	deps, err := ParseGraph(out)
	if err != nil {
		return nil, err
	}
	if err := checkRequired(requires, deps); err != nil {
		return nil, err
	}
	return deps, nil
}

// graphFileResolver reads a graph previously saved with
// `conan install ... --format json > graph.json`.
type graphFileResolver struct {
	fs   afero.Fs
	path string
}

func NewGraphFileResolver(fsys afero.Fs, path string) upstream.Resolver {
	return &graphFileResolver{fs: fsys, path: path}
}

func (g *graphFileResolver) Name() string {
	return "conan-graph-file"
}

func (g *graphFileResolver) Resolve(_ context.Context, requires []upstream.Requirement) ([]upstream.Dependency, error) {
	b, err := afero.ReadFile(g.fs, g.path)
	if err != nil {
		return nil, err
	}
	deps, err := ParseGraph(b)
	if err != nil {
		return nil, err
	}
	if err := checkRequired(requires, deps); err != nil {
		return nil, err
	}
	return deps, nil
}

// CheckVersion fails when the installed conan does not satisfy constraint,
// e.g. ">=2.0".
func CheckVersion(ctx context.Context, executable, constraint string) (string, error) {
	builder := cmdbuilder.NewCmdBuilder(cmdbuilder.WithConanSerializer())
	builder.SetName(executable)
	builder.SetArg("version", "")

	out, err := builder.CmdContext(ctx).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("conan: cannot get version: %w", err)
	}
	return checkVersionOutput(string(out), constraint)
}

func checkVersionOutput(output, constraint string) (string, error) {
	version, err := prefix.NewConanVersionParser(output).Parse()
	if err != nil {
		return "", fmt.Errorf("conan: unexpected version output %q: %w", output, err)
	}
	ok, err := versions.Satisfies(version, constraint)
	if err != nil {
		return version, err
	}
	if !ok {
		return version, fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedConan, version, constraint)
	}
	return version, nil
}
