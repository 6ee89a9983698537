package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusgrid/cms-core/internal/modules/resolver"
	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func targetFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "college", Usage: "college id, selects the college scope"},
		cli.StringFlag{Name: "section", Usage: "college section, see `contentctl sections`"},
		cli.StringFlag{Name: "course", Usage: "course type slug, selects the course scope"},
		cli.StringFlag{Name: "city", Usage: "city slug, narrows --course to a city page"},
		cli.StringFlag{Name: "state", Usage: "state slug, narrows --course to a state page"},
	}
}

// validateTarget checks that the flags name exactly one content key.
func validateTarget(c *cli.Context) error {
	college, course := c.String("college"), c.String("course")
	switch {
	case college != "" && course != "":
		return cli.NewExitError("--college and --course are mutually exclusive", 2)
	case college != "":
		if !contentkey.IsCollegeSection(c.String("section")) {
			return cli.NewExitError(
				fmt.Sprintf("--section must be one of %s", strings.Join(contentkey.CollegeSections(), ", ")),
				2,
			)
		}
	case course != "":
		if c.String("city") != "" && c.String("state") != "" {
			return cli.NewExitError("--city and --state are mutually exclusive", 2)
		}
	default:
		return cli.NewExitError("one of --college or --course is required", 2)
	}
	return nil
}

// resolveTarget turns the target flags into a key and the variant that
// supplies its defaults, walking the same selection steps as the admin UI.
func resolveTarget(ctx context.Context, c *cli.Context, client *adminapi.Client, log *zap.Logger) (contentkey.Key, resolver.Variant, error) {
	if id := c.String("college"); id != "" {
		section := c.String("section")
		name := ""
		if col, err := client.College(ctx, id); err != nil {
			log.Warn("college lookup failed, default title has no name", zap.String("college", id), zap.Error(err))
		} else {
			name = col.Name
		}
		return contentkey.College(id, section), resolver.SectionVariant{CollegeName: name, Section: section}, nil
	}

	sel := resolver.NewSelector(client, log, nil)
	sel.LoadCourseTypes(ctx)
	if err := sel.SelectCourseType(c.String("course")); err != nil {
		return contentkey.Key{}, nil, err
	}

	locType, slug := contentkey.LocationCity, c.String("city")
	if s := c.String("state"); s != "" {
		locType, slug = contentkey.LocationState, s
	}
	if slug == "" {
		key, v, err := sel.CourseKey()
		return key, v, err
	}

	sel.LoadLocations(ctx)
	if err := sel.SelectLocation(locType, slug); err != nil {
		return contentkey.Key{}, nil, err
	}
	key, v, err := sel.LocationKey()
	return key, v, err
}
