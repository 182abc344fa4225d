package calendar

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Embedded zone database so the fallback zone loads on minimal images.
	_ "time/tzdata"
)

// DefaultFallbackZone is used when the host zone cannot be determined.
const DefaultFallbackZone = "Asia/Tokyo"

// TimezoneResolver reports the server process's IANA zone. It is
// process-wide: every user's events are rendered in the same zone.
type TimezoneResolver struct {
	fallback string
	getenv   func(string) string
	readlink func(string) (string, error)
}

// NewTimezoneResolver returns a resolver that falls back to fallback, or to
// DefaultFallbackZone when fallback is empty or not a loadable zone.
func NewTimezoneResolver(fallback string) *TimezoneResolver {
	if fallback == "" {
		fallback = DefaultFallbackZone
	}
	if _, err := time.LoadLocation(fallback); err != nil {
		fallback = DefaultFallbackZone
	}
	return &TimezoneResolver{
		fallback: fallback,
		getenv:   os.Getenv,
		readlink: os.Readlink,
	}
}

// Resolve returns the zone name and its location. Order: $TZ, the
// /etc/localtime symlink target, the fallback.
//
// A host with neither $TZ nor /etc/localtime runs in UTC, the same as the
// Go runtime's Local, so that case reports "UTC" rather than the fallback.
// The fallback covers real failures: an unreadable link, a link outside
// zoneinfo, or a name that will not load.
func (r *TimezoneResolver) Resolve() (string, *time.Location) {
	tz := r.fromEnv()
	if name, loc, ok := load(tz); ok {
		return name, loc
	}

	link, err := r.fromLocaltime()
	if tz == "" && errors.Is(err, fs.ErrNotExist) {
		return "UTC", time.UTC
	}
	if name, loc, ok := load(link); ok {
		return name, loc
	}

	loc, err := time.LoadLocation(r.fallback)
	if err != nil {
		return "UTC", time.UTC
	}
	return r.fallback, loc
}

func load(name string) (string, *time.Location, bool) {
	if name == "" || name == "Local" {
		return "", nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return "", nil, false
	}
	return name, loc, true
}

func (r *TimezoneResolver) fromEnv() string {
	// POSIX allows a leading colon: TZ=:Europe/Paris
	return strings.TrimPrefix(r.getenv("TZ"), ":")
}

// fromLocaltime returns the zone name encoded in the /etc/localtime link.
// A link that does not point into a zoneinfo tree yields "" and no error.
func (r *TimezoneResolver) fromLocaltime() (string, error) {
	target, err := r.readlink("/etc/localtime")
	if err != nil {
		return "", err
	}
	target = filepath.ToSlash(target)
	_, name, ok := strings.Cut(target, "zoneinfo/")
	if !ok {
		return "", nil
	}
	return name, nil
}
