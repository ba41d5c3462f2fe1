package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/areaportal/internal/client/guard"
	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
)

var adminOnly = guard.RequireRole(models.RoleAdmin)

func (a *App) CreateDashboard(ctx context.Context) error {
	return a.page(ctx, "/admin/dashboards/new", adminOnly, func(ctx context.Context, u *models.User) error {
		in, err := a.dashboardForm(models.Dashboard{})
		if err != nil {
			return err
		}
		d, err := a.catalogService.CreateDashboard(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Dashboard %q created with id %s\n", d.Name, d.ID)
		return nil
	})
}

func (a *App) EditDashboard(ctx context.Context, id string) error {
	return a.page(ctx, "/admin/dashboards/"+id+"/edit", adminOnly, func(ctx context.Context, u *models.User) error {
		current, err := a.catalogService.Dashboard(ctx, models.ID(id))
		if err != nil {
			return err
		}
		in, err := a.dashboardForm(*current)
		if err != nil {
			return err
		}
		d, err := a.catalogService.UpdateDashboard(ctx, current.ID, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Dashboard %q updated\n", d.Name)
		return nil
	})
}

// DeleteDashboard also drops the dashboard from local favorites.
func (a *App) DeleteDashboard(ctx context.Context, id string) error {
	return a.page(ctx, "/admin/dashboards/"+id+"/delete", adminOnly, func(ctx context.Context, u *models.User) error {
		ok, err := a.confirm(fmt.Sprintf("Delete dashboard %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
		if err := a.catalogService.DeleteDashboard(ctx, models.ID(id)); err != nil {
			return err
		}
		if err := a.favorites.Remove(ctx, id); err != nil {
			a.log.Warn(ctx, "failed to drop deleted dashboard from favorites", "error", err)
		}
		fmt.Fprintln(a.out, "Dashboard deleted")
		return nil
	})
}

func (a *App) CreateArea(ctx context.Context) error {
	return a.page(ctx, "/admin/areas/new", adminOnly, func(ctx context.Context, u *models.User) error {
		in, err := a.areaForm(models.Area{})
		if err != nil {
			return err
		}
		ar, err := a.catalogService.CreateArea(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Area %q created with id %s\n", ar.Name, ar.ID)
		return nil
	})
}

func (a *App) EditArea(ctx context.Context, id string) error {
	return a.page(ctx, "/admin/areas/"+id+"/edit", adminOnly, func(ctx context.Context, u *models.User) error {
		current, err := a.findArea(ctx, u, models.ID(id))
		if err != nil {
			return err
		}
		in, err := a.areaForm(*current)
		if err != nil {
			return err
		}
		ar, err := a.catalogService.UpdateArea(ctx, current.ID, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Area %q updated\n", ar.Name)
		return nil
	})
}

func (a *App) DeleteArea(ctx context.Context, id string) error {
	return a.page(ctx, "/admin/areas/"+id+"/delete", adminOnly, func(ctx context.Context, u *models.User) error {
		ok, err := a.confirm(fmt.Sprintf("Delete area %s and its dashboards?", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
		if err := a.catalogService.DeleteArea(ctx, models.ID(id)); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Area deleted")
		return nil
	})
}

func (a *App) findArea(ctx context.Context, u *models.User, id models.ID) (*models.Area, error) {
	areas, err := a.catalogService.VisibleAreas(ctx, u)
	if err != nil {
		return nil, err
	}
	for _, ar := range areas {
		if ar.ID == id {
			return &ar, nil
		}
	}
	return nil, &common.APIError{Message: fmt.Sprintf("Area %s not found", id), Err: common.ErrNotFound}
}

func (a *App) dashboardForm(current models.Dashboard) (models.DashboardInput, error) {
	var in models.DashboardInput
	var err error

	if in.Name, err = a.prompt("Name", current.Name); err != nil {
		return in, err
	}
	area, err := a.prompt("Area id", current.AreaID.String())
	if err != nil {
		return in, err
	}
	in.AreaID = models.ID(area)
	if in.ReportID, err = a.prompt("Power BI report id", current.ReportID); err != nil {
		return in, err
	}
	if in.EmbedURL, err = a.prompt("Embed URL", current.EmbedURL); err != nil {
		return in, err
	}
	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return in, err
	}
	in.Description = desc
	if in.Description == "" {
		in.Description = current.Description
	}
	return in, nil
}

func (a *App) areaForm(current models.Area) (models.AreaInput, error) {
	var in models.AreaInput
	var err error

	if in.Name, err = a.prompt("Name", current.Name); err != nil {
		return in, err
	}
	if in.Slug, err = a.prompt("Slug", current.Slug); err != nil {
		return in, err
	}
	if in.Description, err = a.prompt("Description", current.Description); err != nil {
		return in, err
	}
	return in, nil
}
