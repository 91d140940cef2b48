// AngelaMos | 2026
// entity.go

package business

import (
	"time"
)

// Business is a tenant. Deleting one removes its users and products.
type Business struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
