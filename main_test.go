package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "test.log")))
	err := root.Execute()
	return out.String(), err
}

func TestReportCommandFetchesCountry(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[
			{"Category":"Inflation Rate","CategoryGroup":"Prices","LatestValue":100,"PreviousValue":90,"Unit":"percent","LatestValueDate":"2023-01-15T00:00:00","SourceURL":""},
			{"Category":"GDP","CategoryGroup":"GDP","LatestValue":600,"PreviousValue":630,"Unit":"USD Billion","LatestValueDate":"2022-12-31T00:00:00","SourceURL":""}
		]`))
	}))
	defer srv.Close()

	out, err := runRoot(t, "report", "sweden", "--api-base", srv.URL)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if gotPath != "/country/Sweden" {
		t.Fatalf("unexpected request path %s", gotPath)
	}
	if !strings.HasPrefix(out, "Sweden Economic Indicators\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Index(out, "\nGDP\n") > strings.Index(out, "\nPrices\n") {
		t.Fatalf("expected GDP before Prices:\n%s", out)
	}
	if !strings.Contains(out, "GDP · 600 USD Billion · Down · -5.00% · updated 12/31/2022") {
		t.Fatalf("missing GDP line:\n%s", out)
	}
}

func TestReportCommandSurfacesAccessRestriction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, accessRestrictedSentinel, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := runRoot(t, "report", "Mexico", "--api-base", srv.URL)
	if err == nil || err.Error() != accessRestrictedSentinel {
		t.Fatalf("expected access restriction error, got %v", err)
	}
}

func TestReportCommandRejectsUnknownCountry(t *testing.T) {
	if _, err := runRoot(t, "report", "Canada"); err == nil || !strings.Contains(err.Error(), "unknown country") {
		t.Fatalf("expected unknown country error, got %v", err)
	}
}
