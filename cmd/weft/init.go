package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"weft/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new weft project",
	Long: `Initialize a new weft project by creating a project manifest (weft.toml)
and a starter template (index.weft). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := filepath.Base(target)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "weft-project"
	}

	manifestPath, err := project.WriteStarterManifest(target, name)
	if err != nil {
		return err
	}

	// Create index.weft if not exists
	indexPath := filepath.Join(target, "index.weft")
	createdIndex := false
	if _, err := os.Stat(indexPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(indexPath, []byte(defaultIndexWeft(name)), 0o644); err != nil {
			return fmt.Errorf("failed to write index.weft: %w", err)
		}
		createdIndex = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized weft project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", filepath.Base(manifestPath))
	if createdIndex {
		fmt.Fprintf(os.Stdout, "  - index.weft\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - index.weft (existing)\n")
	}
	return nil
}

// defaultIndexWeft returns the starter template written by `weft init`.
// It is already canonically formatted, so `weft fmt --check` passes on a
// fresh project.
func defaultIndexWeft(name string) string {
	return fmt.Sprintf(`<html lang="en">
  <head>
    <title>
      %s
    </title>
  </head>
  <body>
    <h1>
      {{ greeting }}
    </h1>
    <img src="logo.png" alt=%q />
  </body>
</html>
`, name, name)
}
