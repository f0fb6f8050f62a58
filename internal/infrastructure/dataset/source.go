// Package dataset loads tabular data sets from local files, HTTP(S) URLs,
// S3-compatible object stores and PostgreSQL queries.
package dataset

import (
	"net/url"
	"path"
	"strings"

	"github.com/turtacn/themedash/pkg/errors"
)

// Scheme identifies where a Source is read from.
type Scheme string

const (
	SchemeFile     Scheme = "file"
	SchemeHTTP     Scheme = "http"
	SchemeS3       Scheme = "s3"
	SchemePostgres Scheme = "postgres"
)

// Format is the encoding of a file-like source.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Source describes one data set.
//
//	data/strengths.csv                      local file (relative to the base dir)
//	file:///srv/data/strengths.xlsx         local file
//	https://example.com/aapl.csv            HTTP GET
//	s3://surveys/2024/team.csv              object in bucket "surveys"
//	postgres://user@db:5432/survey          Query run against the database
type Source struct {
	Location string `mapstructure:"location" json:"location" yaml:"location"`
	Format   Format `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty"`
	Sheet    string `mapstructure:"sheet" json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Query    string `mapstructure:"query" json:"query,omitempty" yaml:"query,omitempty"`
}

// Scheme classifies the location.
func (s Source) Scheme() (Scheme, error) {
	loc := strings.TrimSpace(s.Location)
	if loc == "" {
		return "", errors.New(errors.ErrCodeValidation, "dataset location is required")
	}
	i := strings.Index(loc, "://")
	if i < 0 {
		return SchemeFile, nil
	}
	switch strings.ToLower(loc[:i]) {
	case "file":
		return SchemeFile, nil
	case "http", "https":
		return SchemeHTTP, nil
	case "s3":
		return SchemeS3, nil
	case "postgres", "postgresql":
		return SchemePostgres, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupportedSource, "unsupported dataset scheme").
			WithDetailf("location=%q", loc)
	}
}

// filePath returns the local path of a file source.
func (s Source) filePath() string {
	loc := strings.TrimSpace(s.Location)
	if strings.HasPrefix(strings.ToLower(loc), "file://") {
		if u, err := url.Parse(loc); err == nil {
			return u.Path
		}
		return loc[len("file://"):]
	}
	return loc
}

// objectRef splits an s3:// location into bucket and key.
func (s Source) objectRef() (bucket, key string, err error) {
	u, perr := url.Parse(strings.TrimSpace(s.Location))
	if perr != nil {
		return "", "", errors.Wrap(perr, errors.ErrCodeValidation, "invalid object location")
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New(errors.ErrCodeValidation, "object location needs a bucket and a key").
			WithDetailf("location=%q", s.Location)
	}
	return bucket, key, nil
}

// detectFormat picks the explicit Format, else guesses from the location's
// extension, else from contentType.  CSV is the fallback.
func (s Source) detectFormat(contentType string) (Format, error) {
	switch Format(strings.ToLower(string(s.Format))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case "":
	default:
		return "", errors.New(errors.ErrCodeUnsupportedSource, "unsupported dataset format").
			WithDetailf("format=%q", s.Format)
	}

	p := s.Location
	if u, err := url.Parse(s.Location); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	}
	if strings.Contains(contentType, "spreadsheetml") {
		return FormatXLSX, nil
	}
	return FormatCSV, nil
}
