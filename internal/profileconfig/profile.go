// Package profileconfig owns the active device-profile store and the
// built-in profile set, per spec.md §3 and §5.
package profileconfig

import (
	"os"
	"strconv"
	"sync/atomic"

	"github.com/thereceipt/printcore/internal/errs"
)

// Kind is the closed set of profile destinations.
type Kind string

const (
	KindPrinter Kind = "printer"
	KindCanvas  Kind = "canvas"
)

// Profile is the device-profile record from spec.md §3.
type Profile struct {
	Kind            Kind
	Name            string
	WidthDots       int
	HeightDotsLimit int // 0 = unbounded
	Destination     string
}

var builtins = map[string]Profile{
	"printer-58mm":  {Kind: KindPrinter, Name: "printer-58mm", WidthDots: 384, Destination: "/dev/rfcomm0"},
	"printer-80mm":  {Kind: KindPrinter, Name: "printer-80mm", WidthDots: 576, Destination: "/dev/rfcomm0"},
	"printer-112mm": {Kind: KindPrinter, Name: "printer-112mm", WidthDots: 832, Destination: "/dev/rfcomm0"},
	"canvas-png":    {Kind: KindCanvas, Name: "canvas-png", WidthDots: 576, Destination: "stdout"},
}

// DefaultProfileName is the profile selected absent any override, matching
// the 576-dot / 80mm printer spec.md's §1 headline describes.
const DefaultProfileName = "printer-80mm"

// BuiltinNames returns the names of every built-in profile.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	return names
}

// Lookup returns a built-in profile by name.
func Lookup(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, errs.New(errs.InvalidParam, "unknown profile %q", name)
	}
	return p, nil
}

// Store is a process-wide atomic reference to the active profile. Set
// replaces it with a single atomic pointer store, so readers always observe
// a consistent snapshot. There is no compare-and-swap: a Get followed by a
// Set is not atomic as a pair.
type Store struct {
	active atomic.Pointer[Profile]
}

// NewStore constructs a Store seeded with the default profile.
func NewStore() *Store {
	s := &Store{}
	p, _ := Lookup(DefaultProfileName)
	s.active.Store(&p)
	return s
}

// Get returns a copy of the active profile.
func (s *Store) Get() Profile {
	return *s.active.Load()
}

// Set atomically installs a new active profile.
func (s *Store) Set(p Profile) {
	cp := p
	s.active.Store(&cp)
}

// SetByName installs a built-in profile as active by name.
func (s *Store) SetByName(name string) (Profile, error) {
	p, err := Lookup(name)
	if err != nil {
		return Profile{}, err
	}
	s.Set(p)
	return p, nil
}

// Config is the process-level configuration, loaded flags > env > defaults
// per the teacher's CLI conventions.
type Config struct {
	ListenAddr     string
	DevicePath     string
	DefaultProfile string
	MaxRowsPerJob  int
	InterJobPause  string
}

// LoadConfig reads RECEIPT_* environment overrides on top of defaults;
// explicit flag values (passed in as non-empty overrides by the CLI layer)
// take final precedence.
func LoadConfig() Config {
	cfg := Config{
		ListenAddr:     "0.0.0.0:8080",
		DevicePath:     "/dev/rfcomm0",
		DefaultProfile: DefaultProfileName,
		MaxRowsPerJob:  1000,
		InterJobPause:  "1s",
	}
	if v := os.Getenv("RECEIPT_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("RECEIPT_DEVICE"); v != "" {
		cfg.DevicePath = v
	}
	if v := os.Getenv("RECEIPT_PROFILE"); v != "" {
		cfg.DefaultProfile = v
	}
	if v := os.Getenv("RECEIPT_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRowsPerJob = n
		}
	}
	if v := os.Getenv("RECEIPT_PAUSE"); v != "" {
		cfg.InterJobPause = v
	}
	return cfg
}
