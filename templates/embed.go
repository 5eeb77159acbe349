// Package templates provides embedded template files for aitools.
package templates

import "embed"

//go:embed wrapper
var FS embed.FS

// GetWrapperTemplate reads a template file from the wrapper directory.
func GetWrapperTemplate(name string) (string, error) {
	data, err := FS.ReadFile("wrapper/" + name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
