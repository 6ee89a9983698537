package main

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusgrid/cms-core/internal/modules/banner"
	"github.com/campusgrid/cms-core/internal/modules/editor"
	"github.com/campusgrid/cms-core/internal/modules/markdown"
	"github.com/campusgrid/cms-core/internal/modules/notify"
	"github.com/campusgrid/cms-core/internal/modules/resolver"
	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func editFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "title", Usage: "page title"},
		cli.StringFlag{Name: "body-file", Usage: "replace the body with this HTML file"},
		cli.StringFlag{Name: "markdown", Usage: "replace the body with this markdown file"},
		cli.StringSliceFlag{Name: "append", Usage: "append a paragraph of plain text, repeatable"},
		cli.StringSliceFlag{Name: "exec", Usage: "run toolbar commands over the whole body in order, e.g. bold,heading2 or textColor=#dc2626"},
		cli.StringFlag{Name: "author", Usage: "author id or name"},
		cli.StringFlag{Name: "meta-title", Usage: "SEO title"},
		cli.StringFlag{Name: "meta-description", Usage: "SEO description"},
		cli.StringSliceFlag{Name: "banner", Usage: "upload an image file as a new banner, repeatable"},
		cli.StringSliceFlag{Name: "banner-alt", Usage: "alt text of the banner at the same position"},
		cli.StringSliceFlag{Name: "remove-banner", Usage: "banner id to drop, repeatable"},
		cli.BoolFlag{Name: "publish", Usage: "save as published instead of draft"},
	}
}

func openResolver(ctx context.Context, c *cli.Context) (*resolver.Resolver, *resolver.Workspace, error) {
	client, log, cfg := clientOf(c), loggerOf(c), configOf(c)
	key, variant, err := resolveTarget(ctx, c, client, log)
	if err != nil {
		return nil, nil, cli.NewExitError(err.Error(), 2)
	}
	ws := resolver.OpenWorkspace(ctx, client, log)
	r := resolver.New(client, client, variant,
		resolver.WithLogger(log.Named("resolver")),
		resolver.WithNotifier(notify.NewTerminal(c.App.Writer, log)),
		resolver.WithSession(resolver.Session{
			AuthorID:    cfg.Client.AuthorID,
			DisplayName: cfg.Client.UserName,
		}),
	)
	switch res := r.Load(ctx, key).(type) {
	case resolver.NotFound:
		out(c, "No content yet under %s, starting from defaults.\n", key)
	case resolver.Invalid:
		return nil, nil, cli.NewExitError(res.Err.Error(), 2)
	}
	return r, ws, nil
}

func show(c *cli.Context) error {
	r, ws, err := openResolver(context.Background(), c)
	if err != nil {
		return err
	}
	printForm(c, r, ws)
	return nil
}

func printForm(c *cli.Context, r *resolver.Resolver, ws *resolver.Workspace) {
	f := r.Form()
	out(c, "Key:         %s\n", r.Key())
	out(c, "Status:      %s\n", r.StatusBadge())
	if at, by := r.LastSaved(); !at.IsZero() {
		out(c, "Last saved:  %s by %s\n", at.Local().Format("2006-01-02 15:04"), orDash(by))
	}
	out(c, "Title:       %s\n", f.Title)
	author := ws.AuthorName(f.AuthorID)
	if author == "" {
		author = f.AuthorID
	}
	out(c, "Author:      %s\n", orDash(author))
	out(c, "Meta title:  %s\n", orDash(f.MetaTitle))
	out(c, "Meta desc:   %s\n", orDash(f.MetaDescription))
	for _, b := range f.Banners {
		out(c, "Banner %s: %s %s\n", b.ID, b.Image, b.Alt)
	}
	for _, advice := range resolver.MetaAdvice(f) {
		out(c, "! %s\n", advice)
	}
	ed := editor.New(f.Body, nil, "")
	out(c, "Body (%d words):\n%s\n", ed.WordCount(), f.Body)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func edit(c *cli.Context) error {
	ctx := context.Background()
	r, ws, err := openResolver(ctx, c)
	if err != nil {
		return err
	}
	log := loggerOf(c)

	if err := applyFields(c, r, ws); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	if err := applyBody(c, r, log); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	if err := applyBanners(ctx, c, r.Banners()); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	status := adminapi.StatusDraft
	if c.Bool("publish") {
		status = adminapi.StatusPublished
	}
	// the resolver already told the operator why
	if err := r.Save(ctx, status); err != nil {
		return cli.NewExitError("", 1)
	}
	printForm(c, r, ws)
	return nil
}

func applyFields(c *cli.Context, r *resolver.Resolver, ws *resolver.Workspace) error {
	fields := []struct{ flag, field string }{
		{"title", resolver.FieldTitle},
		{"meta-title", resolver.FieldMetaTitle},
		{"meta-description", resolver.FieldMetaDescription},
	}
	for _, f := range fields {
		if c.IsSet(f.flag) {
			if err := r.UpdateField(f.field, c.String(f.flag)); err != nil {
				return err
			}
		}
	}
	if c.IsSet("author") {
		id := authorID(ws, c.String("author"))
		if id == "" {
			return fmt.Errorf("unknown author %q", c.String("author"))
		}
		if err := r.UpdateField(resolver.FieldAuthor, id); err != nil {
			return err
		}
	}
	return nil
}

// authorID accepts an id or a case-insensitive name.
func authorID(ws *resolver.Workspace, v string) string {
	for _, a := range ws.Authors {
		if a.ID == v || strings.EqualFold(a.Name, v) {
			return a.ID
		}
	}
	return ""
}

// applyBody runs every body change through the editor so the saved HTML is
// the editor's canonical form.
func applyBody(c *cli.Context, r *resolver.Resolver, log *zap.Logger) error {
	ed := editor.New(r.Form().Body, r.BodyOnChange(), "Start writing...", editor.WithLogger(log.Named("editor")))

	switch {
	case c.String("body-file") != "":
		b, err := os.ReadFile(c.String("body-file"))
		if err != nil {
			return err
		}
		ed.SetContent(string(b))
	case c.String("markdown") != "":
		b, err := os.ReadFile(c.String("markdown"))
		if err != nil {
			return err
		}
		body, err := markdown.ToHTML(string(b))
		if err != nil {
			return fmt.Errorf("markdown: %w", err)
		}
		ed.SetContent(body)
	}

	if extra := c.StringSlice("append"); len(extra) > 0 {
		var sb strings.Builder
		if !ed.IsEmpty() {
			sb.WriteString(ed.HTML())
		}
		for _, p := range extra {
			sb.WriteString("<p>" + html.EscapeString(p) + "</p>")
		}
		ed.SetContent(sb.String())
	}
	return execAll(c, ed, c.StringSlice("exec"))
}

// execAll runs each name or name=arg step with the whole body selected. A
// step the editor refuses at that point is reported and skipped.
func execAll(c *cli.Context, ed *editor.Editor, steps []string) error {
	for _, raw := range steps {
		for _, step := range strings.Split(raw, ",") {
			step = strings.TrimSpace(step)
			if step == "" {
				continue
			}
			name, arg, hasArg := strings.Cut(step, "=")
			var args []string
			if hasArg {
				args = []string{arg}
			}
			ed.SelectAll()
			applied, err := ed.Exec(editor.Command(name), args...)
			if err != nil {
				return err
			}
			if !applied {
				out(c, "Skipped %s, not available here.\n", name)
			}
		}
	}
	return nil
}

func applyBanners(ctx context.Context, c *cli.Context, be *banner.Editor) error {
	for _, id := range c.StringSlice("remove-banner") {
		if err := be.Remove(id); err != nil {
			return err
		}
	}
	alts := c.StringSlice("banner-alt")
	for i, path := range c.StringSlice("banner") {
		if err := addBanner(ctx, be, path, at(alts, i)); err != nil {
			return err
		}
	}
	return nil
}

func addBanner(ctx context.Context, be *banner.Editor, path, alt string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := be.Add(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	if alt != "" {
		return be.Update(b.ID, banner.FieldAlt, alt)
	}
	return nil
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}
