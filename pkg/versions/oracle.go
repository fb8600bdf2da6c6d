// Package versions compares installed mod files against a feed of
// known-latest versions and optionally downloads replacements.
//
// Every network failure here is logged and treated as "no update
// available": the version check is an optional collaborator and must
// never block the rest of a run.
package versions

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/simstack/modtidy/pkg/discover"
	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/types"
)

const requestTimeout = 20 * time.Second

// FeedEntry describes the newest known release of one mod file.
type FeedEntry struct {
	Latest string `json:"latest"`
	URL    string `json:"url"`
}

// Feed maps mod file names to their newest known metadata.
type Feed map[string]FeedEntry

// Outdated pairs an on-disk file with the newer feed entry it lags.
type Outdated struct {
	File      *types.ModFile
	Installed time.Time
	Latest    time.Time
	URL       string
}

// Oracle checks a mod snapshot against the version feed.
type Oracle struct {
	client *http.Client
	logger zerolog.Logger
}

// NewOracle creates an Oracle with a bounded-timeout HTTP client.
func NewOracle() *Oracle {
	return &Oracle{
		client: &http.Client{Timeout: requestTimeout},
		logger: logging.GetLogger("versions"),
	}
}

// Refresh downloads the feed from url into destPath. Failure is
// returned for logging but callers treat it as non-fatal; a stale
// local feed, if present, is still usable.
func (o *Oracle) Refresh(url, destPath string) error {
	resp, err := o.client.Get(url)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNetwork, "failed to fetch version feed from %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrNetwork, "version feed fetch returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrNetwork, "failed to read version feed body")
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "failed to write version feed to %s", destPath)
	}

	o.logger.Info().Str("url", url).Str("dest", destPath).Msg("Version feed refreshed")
	return nil
}

// LoadFeed parses the feed file at path.
func LoadFeed(path string) (Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileIO, "failed to read version feed %s", path)
	}
	var feed Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to parse version feed %s", path)
	}
	return feed, nil
}

// Check compares the snapshot's packages to the feed and returns the
// ones whose on-disk timestamp predates the feed's latest date.
// Entries with unparseable dates are skipped with a log line.
func (o *Oracle) Check(snap *discover.Snapshot, feed Feed) []Outdated {
	var outdated []Outdated
	for _, f := range snap.Packages {
		entry, known := feed[f.Name]
		if !known {
			continue
		}
		latest, err := parseFeedTime(entry.Latest)
		if err != nil {
			o.logger.Warn().Err(err).Str("name", f.Name).Str("latest", entry.Latest).Msg("Skipping feed entry with bad date")
			continue
		}
		if f.Added.Before(latest) {
			outdated = append(outdated, Outdated{
				File:      f,
				Installed: f.Added,
				Latest:    latest,
				URL:       entry.URL,
			})
		}
	}
	return outdated
}

// Download fetches a replacement file from url over the current file
// at destPath. The download goes to a temporary name first so a
// failed transfer never truncates the installed mod.
func (o *Oracle) Download(url, destPath string) error {
	resp, err := o.client.Get(url)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNetwork, "failed to download %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrNetwork, "download of %s returned %s", url, resp.Status)
	}

	tmp := destPath + ".download"
	out, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "failed to create %s", tmp)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrNetwork, "failed to download %s", url)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileIO, "failed to close %s", tmp)
	}
	if err := os.Rename(tmp, destPath); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileIO, "failed to replace %s", destPath)
	}
	return nil
}

// parseFeedTime accepts both bare dates and full RFC 3339 stamps.
func parseFeedTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
