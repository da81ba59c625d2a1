// Package templates renders the dashboard page shell. The cards, table and
// chart data are patched in over SSE once the page loads.
package templates

import (
	"context"
	_ "embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed dashboard.html
var dashboardHTML string

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

type DashboardData struct {
	Title       string
	Categories  []string
	RecordCount int
}

// Dashboard returns the page component for the given category options.
func Dashboard(data DashboardData) templ.Component {
	if data.Title == "" {
		data.Title = "Dashboard Analisis Penjualan"
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return dashboardTemplate.Execute(w, data)
	})
}
