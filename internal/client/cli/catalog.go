package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/areaportal/internal/client/guard"
	"github.com/dmitrijs2005/areaportal/internal/client/models"
)

var (
	viewDashboards  = guard.Options{RequiredPermission: models.PermViewDashboards}
	manageFavorites = guard.Options{RequiredPermission: models.PermManageFavorites}
)

func (a *App) Areas(ctx context.Context) error {
	return a.page(ctx, a.config.HomePath, viewDashboards, func(ctx context.Context, u *models.User) error {
		areas, err := a.catalogService.VisibleAreas(ctx, u)
		if err != nil {
			return err
		}
		if len(areas) == 0 {
			fmt.Fprintln(a.out, "No areas available")
			return nil
		}
		for _, ar := range areas {
			fmt.Fprintf(a.out, "%-16s %s (%d dashboards)\n", ar.Slug, ar.Name, len(ar.Dashboards))
		}
		return nil
	})
}

func (a *App) Area(ctx context.Context, slug string) error {
	return a.page(ctx, "/areas/"+slug, viewDashboards, func(ctx context.Context, u *models.User) error {
		ar, err := a.catalogService.AreaBySlug(ctx, u, slug)
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "%s (%s)\n", ar.Name, ar.Slug)
		if ar.Description != "" {
			fmt.Fprintln(a.out, ar.Description)
		}
		if len(ar.Dashboards) == 0 {
			fmt.Fprintln(a.out, "No dashboards in this area")
			return nil
		}
		for _, d := range ar.Dashboards {
			fmt.Fprintf(a.out, "%s %-8s %s\n", a.star(d.ID), d.ID, d.Name)
		}
		return nil
	})
}

func (a *App) Show(ctx context.Context, id string) error {
	return a.page(ctx, "/dashboards/"+id, viewDashboards, func(ctx context.Context, u *models.User) error {
		d, err := a.catalogService.Dashboard(ctx, models.ID(id))
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "%s %s\n", a.star(d.ID), d.Name)
		fmt.Fprintf(a.out, "  id:     %s\n", d.ID)
		fmt.Fprintf(a.out, "  area:   %s\n", d.AreaID)
		if d.ReportID != "" {
			fmt.Fprintf(a.out, "  report: %s\n", d.ReportID)
		}
		if d.EmbedURL != "" {
			fmt.Fprintf(a.out, "  embed:  %s\n", d.EmbedURL)
		}
		if d.Description != "" {
			fmt.Fprintf(a.out, "  %s\n", d.Description)
		}
		return nil
	})
}

// Fav adds a dashboard to favorites. The area slug is copied from the area
// the dashboard currently belongs to.
func (a *App) Fav(ctx context.Context, id string) error {
	return a.page(ctx, "/dashboards/"+id, manageFavorites, func(ctx context.Context, u *models.User) error {
		if a.favorites.IsFavorite(id) {
			fmt.Fprintln(a.out, "Already in favorites")
			return nil
		}

		d, err := a.catalogService.Dashboard(ctx, models.ID(id))
		if err != nil {
			return err
		}
		slug := ""
		areas, err := a.catalogService.VisibleAreas(ctx, u)
		if err != nil {
			return err
		}
		for _, ar := range areas {
			if ar.ID == d.AreaID {
				slug = ar.Slug
				break
			}
		}

		if _, err := a.favorites.Toggle(ctx, id, d.Name, slug); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added %q to favorites\n", d.Name)
		return nil
	})
}

func (a *App) Unfav(ctx context.Context, id string) error {
	return a.page(ctx, "/favorites", manageFavorites, func(ctx context.Context, u *models.User) error {
		if !a.favorites.IsFavorite(id) {
			fmt.Fprintln(a.out, "Not in favorites")
			return nil
		}
		if err := a.favorites.Remove(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Removed from favorites")
		return nil
	})
}

func (a *App) Favs(ctx context.Context) error {
	return a.page(ctx, "/favorites", manageFavorites, func(ctx context.Context, u *models.User) error {
		list := a.favorites.List()
		if len(list) == 0 {
			fmt.Fprintln(a.out, "No favorites yet (use 'fav <id>')")
			return nil
		}
		for _, f := range list {
			fmt.Fprintf(a.out, "%-8s %-24s %-12s %s\n", f.ID, f.Name, f.AreaSlug, f.AddedAt.Format("2006-01-02 15:04"))
		}
		return nil
	})
}

func (a *App) ClearFavs(ctx context.Context) error {
	return a.page(ctx, "/favorites", manageFavorites, func(ctx context.Context, u *models.User) error {
		if err := a.favorites.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Favorites cleared")
		return nil
	})
}

func (a *App) star(id models.ID) string {
	if a.favorites.IsFavorite(id.String()) {
		return "*"
	}
	return " "
}
