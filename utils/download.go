package utils

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// DownloadScript fetches a paint script over http(s) and saves it
// into a temporary file ready to be replayed.
func DownloadScript(uri string) (*os.File, error) {
	res, err := http.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to download the script file from URI %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download the script file from URI: %s, status %v", uri, res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	// Only the first 512 bytes are used to sniff the content type.
	ctype := http.DetectContentType(data)
	if !strings.HasPrefix(ctype, "text/plain") {
		return nil, fmt.Errorf("the downloaded file is not a plain text script, got %s", ctype)
	}

	tmpfile, err := os.CreateTemp("", "script")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary file: %w", err)
	}

	if _, err := tmpfile.Write(data); err != nil {
		return nil, fmt.Errorf("unable to copy the source URI into the destination file")
	}

	// Rewind so callers can read the script right away.
	if _, err := tmpfile.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	return tmpfile, nil
}

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(uri string) bool {
	_, err := url.ParseRequestURI(uri)
	if err != nil {
		return false
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}
