package comment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFlavor is returned for server software outside both families.
var ErrUnknownFlavor = errors.New("unknown fediverse flavor")

// Flavor names an API family.
type Flavor string

// Supported API families.
const (
	Mastodon Flavor = "mastodon"
	Misskey  Flavor = "misskey"
)

// softwareFlavors maps nodeinfo software names to the API family they speak.
var softwareFlavors = map[string]Flavor{
	"mastodon":   Mastodon,
	"hometown":   Mastodon,
	"glitch":     Mastodon,
	"glitchsoc":  Mastodon,
	"fedibird":   Mastodon,
	"pleroma":    Mastodon,
	"akkoma":     Mastodon,
	"gotosocial": Mastodon,
	"misskey":    Misskey,
	"sharkey":    Misskey,
	"firefish":   Misskey,
	"iceshrimp":  Misskey,
	"foundkey":   Misskey,
	"cherrypick": Misskey,
	"catodon":    Misskey,
}

// ParseFlavor maps a flavor or server software name, case-insensitively,
// to its API family.
func ParseFlavor(name string) (Flavor, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := softwareFlavors[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFlavor, name)
}

// String returns the flavor name.
func (f Flavor) String() string { return string(f) }
