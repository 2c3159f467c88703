package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/xmlsearch/pkg/api"
	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/engine"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/view"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the configured XML source",
		ArgsUsage: "[TERM]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to show when pagination is enabled",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Field to sort by (overrides the configured sort)",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Sort direction: asc or desc",
				Value: "asc",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := searchOptions{
				term:    strings.Join(c.Args().Slice(), " "),
				page:    int(c.Int("page")),
				sort:    c.String("sort"),
				dir:     c.String("dir"),
				json:    c.Bool("json"),
				adapter: view.NewTerminal(),
			}
			return searchData(ctx, os.Stdout, c.String("config"), opts)
		},
	}
}

type searchOptions struct {
	term    string
	page    int
	sort    string
	dir     string
	json    bool
	adapter view.Adapter
}

// searchData loads the source synchronously and renders one page.
func searchData(ctx context.Context, w io.Writer, configPath string, opts searchOptions) error {
	_, svc, err := loadService(configPath, diag.NewLogSink("source"), nil)
	if err != nil {
		return err
	}

	state, err := cliState(svc.SessionOptions(), opts)
	if err != nil {
		return err
	}

	if err := svc.Load(ctx); err != nil {
		var rerr error
		if opts.json {
			rerr = writeJSON(w, api.ErrorResponse{Error: "Load failed", Message: err.Error()})
		} else {
			rerr = opts.adapter.RenderError(ctx, w, err)
		}
		if rerr != nil {
			return rerr
		}
		return cli.Exit("", 1)
	}

	results, err := svc.Search(state)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, api.NewSearchResponse(results))
	}
	return opts.adapter.Render(ctx, w, results.Page)
}

// cliState builds the session state the same way the web UI does, so the
// term goes through the same sanitization and reporting.
func cliState(sopts session.Options, opts searchOptions) (*session.State, error) {
	param := sopts.SearchParam
	if param == "" {
		param = session.DefaultSearchParam
	}
	state := session.InitFromQuery(url.Values{param: {opts.term}}, sopts)
	state.SetPage(opts.page)
	if opts.sort != "" {
		dir, err := engine.ParseDirection(opts.dir)
		if err != nil {
			return nil, err
		}
		state.SetSortField(opts.sort, dir)
	}
	return state, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}
