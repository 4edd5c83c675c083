package conan

// Subset of the `conan install --format json` graph output.

type cppInfo struct {
	BinDirs    []string       `json:"bindirs"`
	Properties map[string]any `json:"properties"`
}

type graphNode struct {
	Ref           string             `json:"ref"`
	Name          string             `json:"name"`
	Version       string             `json:"version"`
	Recipe        string             `json:"recipe"`
	Context       string             `json:"context"`
	PackageFolder string             `json:"package_folder"`
	CppInfo       map[string]cppInfo `json:"cpp_info"`
}

type graphOutput struct {
	Graph struct {
		Nodes map[string]graphNode `json:"nodes"`
	} `json:"graph"`
}
