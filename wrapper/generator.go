// Package wrapper generates the executable shims that make provisioned
// tools globally invocable.
//
// A shim is an indirection script: it execs the tool's own isolated
// interpreter with the tool's entry point and forwards all arguments and
// stdio untouched. The tool's source is never modified, and regenerating a
// shim is a pure function of {tool, entrypoint, interpreter}.
package wrapper

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/yurisbeljimenez/aitools/templates"
)

const shimTemplate = "shim.sh.tmpl"

// Artifact is a rendered shim, ready to publish under Name.
type Artifact struct {
	Name    string
	Content []byte
}

type shimData struct {
	Tool       string
	Python     string
	Entrypoint string
}

// Generate renders the shim for a tool. Both paths are resolved to absolute
// form first: the shim will be invoked from arbitrary working directories
// later, so a relative path embedded here would break it. A missing entry
// point is an error — it would only be discovered at first invocation
// otherwise.
func Generate(toolName, entrypoint, python string) (*Artifact, error) {
	absEntry, err := filepath.Abs(entrypoint)
	if err != nil {
		return nil, fmt.Errorf("wrapper for %s: resolving entry point: %w", toolName, err)
	}
	absPython, err := filepath.Abs(python)
	if err != nil {
		return nil, fmt.Errorf("wrapper for %s: resolving interpreter: %w", toolName, err)
	}

	if info, err := os.Stat(absEntry); err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("wrapper for %s: entry point %s is missing", toolName, absEntry)
	}

	tmplText, err := templates.GetWrapperTemplate(shimTemplate)
	if err != nil {
		return nil, fmt.Errorf("wrapper for %s: reading shim template: %w", toolName, err)
	}
	tmpl, err := template.New(shimTemplate).Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("wrapper for %s: parsing shim template: %w", toolName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, shimData{Tool: toolName, Python: absPython, Entrypoint: absEntry}); err != nil {
		return nil, fmt.Errorf("wrapper for %s: rendering shim: %w", toolName, err)
	}

	return &Artifact{Name: toolName, Content: buf.Bytes()}, nil
}
