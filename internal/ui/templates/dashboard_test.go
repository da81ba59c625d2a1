package templates

import (
	"context"
	"strings"
	"testing"
)

func TestDashboard_Render(t *testing.T) {
	var buf strings.Builder
	err := Dashboard(DashboardData{
		Categories:  []string{"All", "Electronics", "Rumah & Dapur"},
		RecordCount: 26,
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	html := buf.String()
	expected := []string{
		"<title>Dashboard Analisis Penjualan</title>",
		`<option value="All">All</option>`,
		`<option value="Electronics">Electronics</option>`,
		"Rumah &amp; Dapur",
		`id="kpi-cards"`,
		`id="transactions-table"`,
		"/sse/dashboard",
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestDashboard_CustomTitle(t *testing.T) {
	var buf strings.Builder
	if err := Dashboard(DashboardData{Title: "Sales <Q1>"}).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Sales &lt;Q1&gt;") {
		t.Error("title should be escaped")
	}
}
