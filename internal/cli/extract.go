package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/docstrings/internal/extractor"
)

var extractModuleFlag string

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file|->",
	Short: "Extract the docstring tree of a single Python file",
	Long: `Extract parses one Python source file and prints its declaration tree.

The module name defaults to the file name without its extension. When the
source is read from stdin ("-") the module name is empty unless --module is
given.

Examples:
  # Extract a file as JSON
  docstrings extract pkg/shapes.py

  # Extract from stdin as YAML
  cat shapes.py | docstrings extract - --format yaml --module shapes
`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractModuleFlag, "module", "m", "", "module name to put on the root node")
}

func runExtract(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}

	tree, err := extractTarget(cmd.Context(), extractor.New(), args[0], extractModuleFlag, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return formatter.Write(cmd.OutOrStdout(), tree)
}

// extractTarget extracts path, or stdin when path is "-".
func extractTarget(ctx context.Context, ex *extractor.Extractor, path, moduleName string, stdin io.Reader) (*extractor.Node, error) {
	if path != "-" {
		return ex.ExtractFile(ctx, path, moduleName)
	}

	// Read stdin fully first so the reader's own name never becomes the module name.
	source, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return ex.ExtractSource(ctx, source, moduleName)
}
