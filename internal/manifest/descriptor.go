package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/appwrap/appwrap/internal/platform"
)

// Value types understood by PlistBuddy.
const (
	TypeString  = "string"
	TypeBool    = "bool"
	TypeInteger = "integer"
	TypeReal    = "real"
	TypeArray   = "array"
	TypeDict    = "dict"
)

// Assertion sets one descriptor key. Nested keys use PlistBuddy's colon
// syntax ("UISupportedInterfaceOrientations:0").
type Assertion struct {
	Key   string
	Type  string
	Value string
}

// IsContainer reports whether the assertion creates an array or dict.
func (a Assertion) IsContainer() bool {
	return a.Type == TypeArray || a.Type == TypeDict
}

// Descriptor is an ordered sequence of assertions.
type Descriptor struct {
	Assertions []Assertion
}

// Add appends an assertion.
func (d *Descriptor) Add(key, typ, value string) *Descriptor {
	d.Assertions = append(d.Assertions, Assertion{Key: key, Type: typ, Value: value})
	return d
}

// String appends a string assertion.
func (d *Descriptor) String(key, value string) *Descriptor {
	return d.Add(key, TypeString, value)
}

// Ops converts the assertions into editor operations: the first assertion
// for a key is an Add, repeats are a Set.
func (d *Descriptor) Ops() ([]Op, error) {
	seen := make(map[string]bool, len(d.Assertions))
	ops := make([]Op, 0, len(d.Assertions))
	for i, a := range d.Assertions {
		if !seen[a.Key] {
			seen[a.Key] = true
			ops = append(ops, Op{Verb: VerbAdd, Key: a.Key, Type: a.Type, Value: a.Value})
			continue
		}
		if a.IsContainer() {
			return nil, fmt.Errorf("assertion %d (%s): a %s cannot be reassigned", i, a.Key, a.Type)
		}
		ops = append(ops, Op{Verb: VerbSet, Key: a.Key, Type: a.Type, Value: a.Value})
	}
	return ops, nil
}

// Tree evaluates the descriptor in memory and returns the resulting
// property list.
func (d *Descriptor) Tree() (map[string]interface{}, error) {
	ops, err := d.Ops()
	if err != nil {
		return nil, err
	}
	root := map[string]interface{}{}
	for i, op := range ops {
		if err := apply(root, op); err != nil {
			return nil, fmt.Errorf("assertion %d (%s): %w", i, op.Key, err)
		}
	}
	return root, nil
}

// Identity holds the values a descriptor is generated from.
type Identity struct {
	AppName  string
	BundleID string
	// Version is the marketing version, MAJOR.MINOR.PATCH.
	Version string
	// Build is the bundle build number.
	Build string
}

// NewIdentity validates version and returns an Identity for appName.
// Prerelease and metadata suffixes are rejected: bundle versions are
// plain dotted integers.
func NewIdentity(appName, bundleID, version, build string) (Identity, error) {
	if version == "" {
		version = "1.0.0"
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return Identity{}, fmt.Errorf("parsing app version %q: %w", version, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return Identity{}, fmt.Errorf("app version %q: bundle versions cannot carry prerelease or build metadata", version)
	}
	if build == "" {
		build = "1"
	}
	return Identity{
		AppName:  appName,
		BundleID: bundleID,
		Version:  fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch()),
		Build:    build,
	}, nil
}

// ForTarget returns the descriptor for t, or nil when t has none.
func ForTarget(t platform.Target, id Identity) *Descriptor {
	switch t {
	case platform.DesktopMacOS:
		return macOS(id)
	case platform.MobileIOS:
		return iOS(id)
	default:
		return nil
	}
}

func macOS(id Identity) *Descriptor {
	d := &Descriptor{}
	d.String("CFBundleDisplayName", id.AppName).
		String("CFBundleIdentifier", id.BundleID).
		String("CFBundleExecutable", id.AppName).
		String("CFBundleName", id.AppName).
		String("CFBundlePackageType", "APPL").
		String("CFBundleShortVersionString", id.Version).
		String("CFBundleVersion", id.Build).
		String("LSMinimumSystemVersion", "10.10")
	return d
}

func iOS(id Identity) *Descriptor {
	d := &Descriptor{}
	d.String("CFBundleDevelopmentRegion", "en").
		String("CFBundleDisplayName", id.AppName).
		String("CFBundleExecutable", id.AppName).
		String("CFBundleIdentifier", id.BundleID).
		String("CFBundleInfoDictionaryVersion", "6.0").
		String("CFBundleName", id.AppName).
		String("CFBundlePackageType", "APPL").
		String("CFBundleShortVersionString", id.Version).
		String("CFBundleSignature", "????").
		String("CFBundleVersion", id.Build).
		Add("LSRequiresIPhoneOS", TypeBool, "true").
		Add("UISupportedInterfaceOrientations", TypeArray, "").
		String("UISupportedInterfaceOrientations:0", "UIInterfaceOrientationLandscapeLeft").
		String("UISupportedInterfaceOrientations:1", "UIInterfaceOrientationLandscapeRight")
	return d
}
