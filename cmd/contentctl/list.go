package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"github.com/urfave/cli"
)

func listSections(c *cli.Context) error {
	for _, s := range contentkey.CollegeSections() {
		out(c, "%-12s %s\n", s, contentkey.SectionLabel(s))
	}
	return nil
}

func listCourseTypes(c *cli.Context) error {
	types, err := clientOf(c).CourseTypes(context.Background(), c.String("status"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("unable to list course types %s", err), 1)
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tFULL NAME\tSTATUS")
	for _, ct := range types {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", contentkey.CourseTypeSlug(ct.Slug, ct.Name), ct.Name, ct.FullName, ct.Status)
	}
	return tw.Flush()
}

func listLocations(c *cli.Context) error {
	course := c.String("course")
	if course == "" {
		return cli.NewExitError("--course is required", 2)
	}
	locs, err := clientOf(c).AvailableLocations(context.Background(), course)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("unable to list locations %s", err), 1)
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tSLUG\tNAME\tCOLLEGES\tPAGE")
	write := func(typ string, items []adminapi.LocationSummary) {
		for _, l := range items {
			page := "-"
			if l.HasContent {
				page = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", typ, l.Slug, l.Name, l.CollegeCount, page)
		}
	}
	write(contentkey.LocationCity, locs.Cities)
	write(contentkey.LocationState, locs.States)
	return tw.Flush()
}
