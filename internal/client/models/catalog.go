package models

// Area groups dashboards. Access is gated per user (see User.CanSeeArea).
type Area struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description,omitempty"`
	Dashboards  []Dashboard `json:"dashboards,omitempty"`
}

// Dashboard is an embedded Power BI report that belongs to one area.
type Dashboard struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	AreaID      ID     `json:"areaId"`
	ReportID    string `json:"reportId,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// AreaInput is the payload for creating or updating an area.
type AreaInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// DashboardInput is the payload for creating or updating a dashboard.
type DashboardInput struct {
	Name        string `json:"name"`
	AreaID      ID     `json:"areaId"`
	ReportID    string `json:"reportId,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"`
	Description string `json:"description,omitempty"`
}
