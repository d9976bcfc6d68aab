package cmd

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	apiclient "sifter/api-client"
)

type pageFlags struct {
	size   string
	number string
	all    bool
}

func (f *pageFlags) register(cmd *cobra.Command, paged bool) {
	cmd.Flags().StringVar(&f.size, "page-size", "", "number of items in a single page")
	cmd.Flags().StringVar(&f.number, "page-number", "", "start with items on this page")
	if paged {
		cmd.Flags().BoolVar(&f.all, "all-pages", false, "keep requesting pages until the API reports no more")
	}
}

func (f *pageFlags) pagination() apiclient.Pagination {
	return apiclient.Pagination{PageSize: f.size, PageNumber: f.number}
}

func printEnvelope[T any](w io.Writer, env *apiclient.ResourceEnvelope[T]) error {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failure formatting response")
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// printOne prints a single page. An error reported by the API is printed and
// then returned so the process exits non-zero.
func printOne[T any](ctx context.Context, w io.Writer, get func(context.Context) (*apiclient.ResourceEnvelope[T], error)) error {
	env, err := get(ctx)
	if err != nil {
		return err
	}
	if err := printEnvelope(w, env); err != nil {
		return err
	}
	return env.Err()
}

func printPages[T any](ctx context.Context, w io.Writer, pager *apiclient.Pager[T]) error {
	for pager.Next(ctx) {
		env := pager.Envelope()
		if err := printEnvelope(w, env); err != nil {
			return err
		}
		if err := env.Err(); err != nil {
			return err
		}
	}
	return pager.Err()
}

// printPaged prints either the requested page or, with --all-pages, every page
// from it onwards.
func printPaged[T any](ctx context.Context, w io.Writer, all bool,
	get func(context.Context) (*apiclient.ResourceEnvelope[T], error),
	pages func() *apiclient.Pager[T],
) error {
	if all {
		return printPages(ctx, w, pages())
	}
	return printOne(ctx, w, get)
}
