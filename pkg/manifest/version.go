// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultVersion is used when a manifest header carries no usable version.
var DefaultVersion = Version{1, 0, 0}

// Version is a pack version triple as written in manifest headers and
// world activation files.
type Version [3]int

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// MarshalJSON writes the version as a three element array.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int(v))
}

// UnmarshalJSON accepts both the array form [1, 2, 0] and the string
// form "1.2.0". Missing trailing components are zero.
func (v *Version) UnmarshalJSON(data []byte) error {
	parsed, ok := parseVersion(data)
	if !ok {
		return fmt.Errorf("unsupported version value %s", data)
	}
	*v = parsed
	return nil
}

func parseVersion(data []byte) (Version, bool) {
	var out Version

	var nums []float64
	if err := json.Unmarshal(data, &nums); err == nil {
		if len(nums) == 0 {
			return out, false
		}
		for i := 0; i < len(out) && i < len(nums); i++ {
			out[i] = int(nums[i])
		}
		return out, true
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return out, false
	}
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	for i := 0; i < len(out) && i < len(parts); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return out, false
		}
		out[i] = n
	}
	return out, true
}
