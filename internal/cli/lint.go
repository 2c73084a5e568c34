/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/spf13/cobra"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/config"
	"dirpx.dev/spx/discovery"
	"dirpx.dev/spx/source"
)

// ErrFindings is returned by lint --strict when any finding was reported.
var ErrFindings = errors.New("spx(lint): resource findings reported")

// Finding is one problem in a resource file.
type Finding struct {
	// Source is "<root>/<resource key>".
	Source string
	// Line is 1-based; zero for whole-file findings.
	Line int
	// Msg describes the problem.
	Msg string
}

// Error implements error.
func (f Finding) Error() string {
	if f.Line == 0 {
		return fmt.Sprintf("%s: %s", f.Source, f.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", f.Source, f.Line, f.Msg)
}

// Report summarizes a lint run.
type Report struct {
	// Resources counts the resource files read.
	Resources int
	// Entries counts usable "name=identifier" lines.
	Entries int
	// Findings lists problems in scan order.
	Findings []Finding
}

// Err joins every finding, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Findings))
	for _, f := range r.Findings {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// definition is where a name was last bound.
type definition struct {
	id     string
	source string
	line   int
}

// Lint scans every resource under cfg.Directory in each root, in order.
//
// Unusable lines, which discovery skips silently, are reported. So are
// names bound again to a different identifier, in the same file or by a
// later root, since only the last binding takes effect.
func Lint(cfg apis.Config, roots ...source.Root) (*Report, error) {
	cfg = config.Sanitize(cfg)
	rep := &Report{}
	// resource key -> name -> last definition
	seen := make(map[string]map[string]definition)

	for _, root := range roots {
		err := fs.WalkDir(root.FS, cfg.Directory, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				// A root without resources contributes nothing.
				if p == cfg.Directory && errors.Is(err, fs.ErrNotExist) {
					return fs.SkipDir
				}
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			data, err := fs.ReadFile(root.FS, p)
			if err != nil {
				return err
			}
			rep.Resources++

			src := path.Join(root.Name, p)
			names := seen[p]
			if names == nil {
				names = make(map[string]definition)
				seen[p] = names
			}
			return discovery.Scan(data, func(n int, raw string, ln discovery.Line, kind discovery.Kind) {
				switch kind {
				case discovery.Unusable:
					rep.Findings = append(rep.Findings, Finding{Source: src, Line: n, Msg: fmt.Sprintf("skipped, not a name=identifier entry: %q", raw)})
				case discovery.Entry:
					rep.Entries++
					if prev, ok := names[ln.Name]; ok && prev.id != ln.ID {
						rep.Findings = append(rep.Findings, Finding{
							Source: src,
							Line:   n,
							Msg:    fmt.Sprintf("name %q rebound to %s, overrides %s at %s:%d", ln.Name, ln.ID, prev.id, prev.source, prev.line),
						})
					}
					names[ln.Name] = definition{id: ln.ID, source: src, line: n}
				}
			})
		})
		if err != nil {
			return rep, fmt.Errorf("spx(lint): %s: %w", root.Name, err)
		}
	}
	return rep, nil
}

func newLintCmd(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint [dir...]",
		Short: "Check extension resource files",
		Long: `Scan the extension resources below each directory, in order, and
report lines discovery would skip and names whose binding is overridden.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			roots := make([]source.Root, 0, len(args))
			for _, dir := range args {
				roots = append(roots, source.Root{Name: dir, FS: os.DirFS(dir)})
			}

			rep, err := Lint(cfg, roots...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range rep.Findings {
				fmt.Fprintln(out, f.Error())
			}
			fmt.Fprintf(out, "%d resources, %d entries, %d findings\n", rep.Resources, rep.Entries, len(rep.Findings))

			if strict && len(rep.Findings) > 0 {
				return fmt.Errorf("%w: %w", ErrFindings, rep.Err())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when findings are reported")
	return cmd
}
