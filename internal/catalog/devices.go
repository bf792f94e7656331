package catalog

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed devices.txt
var devicesFS embed.FS

// prefabToHash and hashToDisplay are assembled from the embedded
// registry at init. Hashes are computed rather than stored: the game
// derives every prefab hash from the prefab name with the same CRC-32,
// so computing keeps the registry consistent by construction.
var (
	prefabToHash  = map[string]int32{}
	hashToDisplay = map[int32]string{}
)

func init() {
	data, err := devicesFS.ReadFile("devices.txt")
	if err != nil {
		panic("catalog: embedded device registry missing: " + err.Error())
	}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefab, display, found := strings.Cut(line, "|")
		prefab = strings.TrimSpace(prefab)
		if prefab == "" {
			continue
		}
		if !found || strings.TrimSpace(display) == "" {
			display = prefab
		}
		hash := ComputeCRC32(prefab)
		prefabToHash[prefab] = hash
		hashToDisplay[hash] = strings.TrimSpace(display)
	}
}

// DeviceHash returns the hash for a known device prefab name.
func DeviceHash(prefab string) (int32, bool) {
	h, ok := prefabToHash[prefab]
	return h, ok
}

// DeviceNameForHash returns the display name registered for a hash.
func DeviceNameForHash(hash int32) (string, bool) {
	name, ok := hashToDisplay[hash]
	return name, ok
}

// IsKnownDevice reports whether the prefab name is in the registry.
func IsKnownDevice(prefab string) bool {
	_, ok := prefabToHash[prefab]
	return ok
}
