package storage

import "strconv"

// UnknownProviderError is returned when a configured storage provider name
// doesn't match any known driver.
type UnknownProviderError struct {
	Provider string
}

func (e UnknownProviderError) Error() string {
	if e.Provider == "" {
		return "storage provider not set"
	}

	return "unknown storage provider: " + strconv.Quote(e.Provider) + " (valid: sqlite, inmemory)"
}
