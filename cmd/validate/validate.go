package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	validIDRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

// isValidContentFilename allows an 'x.' prefix for experimental content.
func isValidContentFilename(name string) bool {
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}

func newRootCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:           "validate [content-dir]",
		Short:         "Strictly decode and cross-check a content directory",
		Long:          "Decodes every YAML file with unknown keys rejected, checks id formatting, then cross-checks every reference. Without a directory the embedded default content is checked.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := &ContentValidator{out: cmd.OutOrStdout(), quiet: quiet}
			var err error
			if len(args) == 0 {
				err = v.validateDefault()
			} else {
				err = v.validateDir(args[0])
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed: %v\n", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print problems")
	return cmd
}

// ContentValidator accumulates problems across every file of a directory.
type ContentValidator struct {
	out    io.Writer
	quiet  bool
	errors []string
}

func (v *ContentValidator) printf(format string, args ...any) {
	if !v.quiet {
		fmt.Fprintf(v.out, format, args...)
	}
}

func (v *ContentValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *ContentValidator) validateDefault() error {
	lib, err := content.Default()
	if err != nil {
		return err
	}
	v.summary(lib)
	return nil
}

func (v *ContentValidator) validateDir(dir string) error {
	v.printf("Validating %s...\n", dir)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	fsys := os.DirFS(dir)

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	v.errors = nil
	for _, e := range entries {
		ext := path.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		v.validateFile(fsys, e.Name())
	}
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", dir, strings.Join(v.errors, "\n"))
	}

	lib, err := content.Load(fsys)
	if err != nil {
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				v.addError(p)
			}
			return fmt.Errorf("reference errors in %s:\n%s", dir, strings.Join(v.errors, "\n"))
		}
		return err
	}
	v.summary(lib)
	return nil
}

func (v *ContentValidator) validateFile(fsys fs.FS, name string) {
	base := strings.TrimSuffix(name, path.Ext(name))
	if !isValidContentFilename(base) {
		v.addError(fmt.Sprintf("file name '%s' must be lowercase snake_case", name))
	}
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		v.addError(fmt.Sprintf("%s: %v", name, err))
		return
	}
	doc, err := content.Decode(b)
	if err != nil {
		v.addError(fmt.Sprintf("%s: strict decoding failed: %v", name, err))
		return
	}

	check := func(field, id string) {
		if id != "" && !isValidID(id) {
			v.addError(fmt.Sprintf("%s: %s '%s' should be lowercase snake_case", name, field, id))
		}
	}
	for _, e := range doc.Events {
		check("event ID", e.ID)
		for _, c := range e.Choices {
			check("choice ID", c.ID)
		}
		for stageID, st := range e.Stages {
			check("stage ID", stageID)
			for _, c := range st.Choices {
				check("choice ID", c.ID)
			}
		}
	}
	for _, it := range doc.Items {
		check("item ID", it.ID)
	}
	for _, r := range doc.Relics {
		check("relic ID", r.ID)
	}
	for _, c := range doc.Cards {
		check("card ID", c.ID)
	}
	for _, m := range doc.Merchants {
		check("merchant ID", m.ID)
	}
	for _, n := range doc.Pyramid {
		check("pyramid node ID", n.ID)
	}
	for _, l := range doc.Logos {
		check("logos ID", l.ID)
	}
}

func (v *ContentValidator) summary(lib *content.Library) {
	counts := lib.Counts()
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	title := cases.Title(language.English)
	v.printf("Content is valid!\n")
	for _, k := range keys {
		v.printf("  %-12s %d\n", title.String(k), counts[k])
	}
}
