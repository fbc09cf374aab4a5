// Package cli holds the cobra command for the define binary.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wikidefine/internal/app"
	"github.com/heartmarshall/wikidefine/internal/service/lookup"
	"github.com/heartmarshall/wikidefine/internal/view"
)

// Lookuper answers a lookup query. Implemented by lookup.Service.
type Lookuper interface {
	Lookup(ctx context.Context, q lookup.Query) (*lookup.Result, error)
}

// Opener connects a Lookuper for one command run using the config file at
// configPath (empty means the default lookup). The returned func releases it.
type Opener func(ctx context.Context, configPath string) (Lookuper, func(), error)

type defineOptions struct {
	config   string
	language string
	raw      bool
	noColor  bool
	width    int
	output   string
}

// NewCmdDefine creates the root command of the define binary.
func NewCmdDefine(open Opener) *cobra.Command {
	opts := &defineOptions{}

	cmd := &cobra.Command{
		Use:   "define WORD",
		Short: "Look up the definitions of a word",
		Long: `define prints every stored definition of WORD grouped by language
and part of speech. Templates and wiki markup are rendered unless --raw
is given.`,
		Example: `  define cat
  define --language French chat
  define -r "ice cream"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       app.BuildVersion(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := view.ValidateFormat(opts.output); err != nil {
				return err
			}
			svc, closeFn, err := open(cmd.Context(), opts.config)
			if err != nil {
				return err
			}
			defer closeFn()
			return runDefine(cmd.Context(), cmd.OutOrStdout(), args[0], opts, svc)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "only show definitions in this language")
	cmd.Flags().BoolVarP(&opts.raw, "raw", "r", false, "print definitions without rendering templates or markup")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().IntVar(&opts.width, "width", view.DefaultWidth, "wrap definitions at this column")
	cmd.Flags().StringVarP(&opts.output, "output", "o", string(view.FormatText), "output format: text, json")

	return cmd
}

func runDefine(ctx context.Context, w io.Writer, name string, opts *defineOptions, svc Lookuper) error {
	res, err := svc.Lookup(ctx, lookup.Query{Name: name, Language: opts.language, Raw: opts.raw})
	if err != nil {
		return fmt.Errorf("lookup %q: %w", name, err)
	}

	renderOpts := []view.Option{
		view.WithWidth(opts.width),
		view.WithFormat(view.Format(opts.output)),
	}
	if opts.noColor {
		renderOpts = append(renderOpts, view.WithColor(false))
	}
	return view.NewRenderer(w, renderOpts...).Render(res)
}
