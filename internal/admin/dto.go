// AngelaMos | 2026
// dto.go

package admin

type MarketplaceStats struct {
	Businesses       int64            `json:"businesses"`
	Users            int64            `json:"users"`
	UsersByRole      map[string]int64 `json:"users_by_role"`
	Products         int64            `json:"products"`
	ProductsByStatus map[string]int64 `json:"products_by_status"`
	ChatMessages     int64            `json:"chat_messages"`
	TopBusinesses    []BusinessStats  `json:"top_businesses"`
}

type BusinessStats struct {
	ID       string `json:"id"       db:"id"`
	Name     string `json:"name"     db:"name"`
	Products int64  `json:"products" db:"products"`
	Approved int64  `json:"approved" db:"approved"`
}

type ApproveRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type ApproveResponse struct {
	Approved int `json:"approved"`
}

type PruneResponse struct {
	Deleted int64 `json:"deleted"`
}

type SystemStatsResponse struct {
	Marketplace *MarketplaceStats `json:"marketplace,omitempty"`
	Database    DatabaseStatus    `json:"database"`
	Redis       RedisStatus       `json:"redis"`
	Runtime     RuntimeStats      `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
