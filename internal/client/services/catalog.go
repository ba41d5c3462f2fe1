package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/areaportal/internal/client/client"
	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CatalogService reads areas and dashboards and performs the admin CRUD on
// them. Access control is enforced by route guards and the server; the
// service only filters what a user gets to see.
type CatalogService interface {
	VisibleAreas(ctx context.Context, user *models.User) ([]models.Area, error)
	AreaBySlug(ctx context.Context, user *models.User, slug string) (*models.Area, error)
	Dashboard(ctx context.Context, id models.ID) (*models.Dashboard, error)

	CreateArea(ctx context.Context, in models.AreaInput) (*models.Area, error)
	UpdateArea(ctx context.Context, id models.ID, in models.AreaInput) (*models.Area, error)
	DeleteArea(ctx context.Context, id models.ID) error

	CreateDashboard(ctx context.Context, in models.DashboardInput) (*models.Dashboard, error)
	UpdateDashboard(ctx context.Context, id models.ID, in models.DashboardInput) (*models.Dashboard, error)
	DeleteDashboard(ctx context.Context, id models.ID) error
}

type catalogService struct {
	client client.Client
}

func NewCatalogService(client client.Client) CatalogService {
	return &catalogService{client: client}
}

// VisibleAreas returns every area for admins and only the user's own areas
// for everyone else. A nil user sees nothing.
func (c *catalogService) VisibleAreas(ctx context.Context, user *models.User) ([]models.Area, error) {
	if user == nil {
		return nil, nil
	}

	areas, err := c.client.GetAllAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("get areas error: %w", err)
	}

	visible := make([]models.Area, 0, len(areas))
	for _, a := range areas {
		if user.CanSeeArea(a) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// AreaBySlug finds a visible area. An area the user may not see is reported
// as forbidden, an unknown slug as not found.
func (c *catalogService) AreaBySlug(ctx context.Context, user *models.User, slug string) (*models.Area, error) {
	areas, err := c.client.GetAllAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("get areas error: %w", err)
	}

	for _, a := range areas {
		if a.Slug != slug {
			continue
		}
		if !user.CanSeeArea(a) {
			return nil, &common.APIError{Message: "You do not have access to this area", Err: common.ErrForbidden}
		}
		return &a, nil
	}
	return nil, &common.APIError{Message: fmt.Sprintf("Area %q not found", slug), Err: common.ErrNotFound}
}

func (c *catalogService) Dashboard(ctx context.Context, id models.ID) (*models.Dashboard, error) {
	if id == "" {
		return nil, common.NewValidationError("Dashboard id is required")
	}
	d, err := c.client.GetDashboardByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dashboard error: %w", err)
	}
	return d, nil
}

func (c *catalogService) CreateArea(ctx context.Context, in models.AreaInput) (*models.Area, error) {
	in, err := normalizeArea(in)
	if err != nil {
		return nil, err
	}
	a, err := c.client.CreateArea(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create area error: %w", err)
	}
	return a, nil
}

func (c *catalogService) UpdateArea(ctx context.Context, id models.ID, in models.AreaInput) (*models.Area, error) {
	if id == "" {
		return nil, common.NewValidationError("Area id is required")
	}
	in, err := normalizeArea(in)
	if err != nil {
		return nil, err
	}
	a, err := c.client.UpdateArea(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update area error: %w", err)
	}
	return a, nil
}

func (c *catalogService) DeleteArea(ctx context.Context, id models.ID) error {
	if id == "" {
		return common.NewValidationError("Area id is required")
	}
	if err := c.client.DeleteArea(ctx, id); err != nil {
		return fmt.Errorf("delete area error: %w", err)
	}
	return nil
}

func (c *catalogService) CreateDashboard(ctx context.Context, in models.DashboardInput) (*models.Dashboard, error) {
	in, err := normalizeDashboard(in)
	if err != nil {
		return nil, err
	}
	d, err := c.client.CreateDashboard(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create dashboard error: %w", err)
	}
	return d, nil
}

func (c *catalogService) UpdateDashboard(ctx context.Context, id models.ID, in models.DashboardInput) (*models.Dashboard, error) {
	if id == "" {
		return nil, common.NewValidationError("Dashboard id is required")
	}
	in, err := normalizeDashboard(in)
	if err != nil {
		return nil, err
	}
	d, err := c.client.UpdateDashboard(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update dashboard error: %w", err)
	}
	return d, nil
}

func (c *catalogService) DeleteDashboard(ctx context.Context, id models.ID) error {
	if id == "" {
		return common.NewValidationError("Dashboard id is required")
	}
	if err := c.client.DeleteDashboard(ctx, id); err != nil {
		return fmt.Errorf("delete dashboard error: %w", err)
	}
	return nil
}

func normalizeArea(in models.AreaInput) (models.AreaInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return in, common.NewValidationError("Area name is required")
	}
	if in.Slug == "" {
		return in, common.NewValidationError("Area slug is required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return in, common.NewValidationError("Slug may only contain lowercase letters, digits and single dashes")
	}
	return in, nil
}

func normalizeDashboard(in models.DashboardInput) (models.DashboardInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ReportID = strings.TrimSpace(in.ReportID)
	in.EmbedURL = strings.TrimSpace(in.EmbedURL)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return in, common.NewValidationError("Dashboard name is required")
	}
	if in.AreaID == "" {
		return in, common.NewValidationError("Dashboard area is required")
	}
	if in.EmbedURL != "" && !strings.HasPrefix(in.EmbedURL, "https://") {
		return in, common.NewValidationError("Embed URL must use https")
	}
	return in, nil
}
