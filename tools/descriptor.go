// Package tools discovers provisionable tool directories.
//
// A subdirectory of the tools root is a tool iff it contains both a
// recognized entry-point file and a recognized dependency manifest. Tools
// are self-contained: nothing is shared between them, and the orchestrator
// never looks past these two contract files.
package tools

// Recognized file names that make a directory a tool.
const (
	EntrypointName = "main.py"
	ManifestName   = "requirements.txt"
)

// Descriptor identifies one discovered tool. All paths are absolute.
type Descriptor struct {
	// Name is the command name the tool will be published under.
	Name string
	// Dir is the tool's own directory.
	Dir string
	// Entrypoint is the tool's entry-point file.
	Entrypoint string
	// Manifest is the tool's dependency manifest.
	Manifest string
}
