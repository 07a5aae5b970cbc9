package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/swinslow/spdx-builder/internal/validate"
)

// createValidateCommand creates the validate subcommand
func createValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate an SPDX JSON document against the SPDX 2.2 schema",
		Long: `Validate an SPDX JSON document (plain or gzip-compressed) against the
SPDX 2.2 schema shipped with the tool.`,
		Args: cobra.ExactArgs(1),
		RunE: executeValidate,
	}
	return validateCmd
}

// executeValidate handles the validate command logic
func executeValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := readDocument(path)
	if err != nil {
		return err
	}

	if err := validate.DocumentJSON(data); err != nil {
		return fmt.Errorf("%s is not a valid SPDX 2.2 document: %w", path, err)
	}

	fmt.Printf("%s is a valid SPDX 2.2 document\n", path)
	return nil
}

func readDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
