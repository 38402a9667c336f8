package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestUtils_ShouldDownloadScript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hex #FF0000\npress 0 0\nrelease\n")
	}))
	defer srv.Close()

	f, err := DownloadScript(srv.URL)
	if err != nil {
		t.Fatalf("could't download test script: %v", err)
	}
	defer os.Remove(f.Name())

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("could not read back the downloaded script: %v", err)
	}

	if !strings.Contains(string(data), "press 0 0") {
		t.Errorf("The downloaded script should contain the original commands")
	}
}

func TestUtils_ShouldRejectBinaryDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"))
	}))
	defer srv.Close()

	if _, err := DownloadScript(srv.URL); err == nil {
		t.Errorf("A binary payload should not be accepted as a paint script")
	}
}

func TestUtils_ShouldReportMissingScript(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := DownloadScript(srv.URL + "/missing.txt"); err == nil {
		t.Errorf("A non 200 response should have been reported")
	}
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	ok := IsValidUrl("https://github.com/cheryl-qian/pixl/")
	if !ok {
		t.Errorf("A valid URL should have been provided")
	}

	if IsValidUrl("testdata/sample.txt") {
		t.Errorf("A plain file path is not a valid URL")
	}
}
