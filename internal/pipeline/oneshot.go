package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"listingsheet/internal"
)

// InputTypeFromPath guesses the input type from a file extension, falling
// back to plain text.
func InputTypeFromPath(path string) internal.InputType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return internal.InputHTML
	case ".eml":
		return internal.InputEML
	case ".pdf":
		return internal.InputPDF
	default:
		return internal.InputText
	}
}

func ParseInputType(value string) (internal.InputType, error) {
	switch t := internal.InputType(strings.ToLower(strings.TrimSpace(value))); t {
	case internal.InputText, internal.InputHTML, internal.InputEML, internal.InputPDF:
		return t, nil
	default:
		return "", eris.Errorf("unsupported input type: %s", value)
	}
}

// ReadInput loads path ("-" for stdin) and extracts its listing text.
func ReadInput(path string, inputType internal.InputType, charset string, stdin io.Reader) (string, []byte, error) {
	var (
		blob []byte
		err  error
	)
	if path == "-" {
		blob, err = io.ReadAll(stdin)
	} else {
		blob, err = os.ReadFile(path)
	}
	if err != nil {
		return "", nil, eris.Wrapf(err, "read input %s", path)
	}
	if inputType == "" {
		inputType = InputTypeFromPath(path)
	}
	text, err := ExtractText(inputType, blob, charset)
	if err != nil {
		return "", nil, err
	}
	return text, blob, nil
}
