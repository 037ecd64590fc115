package model

import "time"

// Profile is a named quota bundle users reference by name.
type Profile struct {
	Base
	Name           string `json:"name" db:"name"`
	MaxConnections int    `json:"max_connections" db:"max_connections"`
	IdleTimeoutSec int    `json:"idle_timeout_sec" db:"idle_timeout_sec"`
	StorageQuotaMB int    `json:"storage_quota_mb" db:"storage_quota_mb"`
}

// IdleTimeout returns the connection idle timeout as a duration; zero means
// connections never expire for this profile.
func (p *Profile) IdleTimeout() time.Duration {
	return time.Duration(p.IdleTimeoutSec) * time.Second
}

type CreateProfileRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=64"`
	MaxConnections int    `json:"max_connections" validate:"min=0"`
	IdleTimeoutSec int    `json:"idle_timeout_sec" validate:"min=0"`
	StorageQuotaMB int    `json:"storage_quota_mb" validate:"min=0"`
}
