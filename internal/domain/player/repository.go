package player

import "context"

// ListFilter narrows player listings. Zero value lists everyone by id.
type ListFilter struct {
	ValidOnly   bool
	MinMatches  int
	NamePrefix  string
	IDs         []int64
	OrderByRate bool
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, id int64) (Player, bool, error)
	GetByName(ctx context.Context, name string) (Player, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Player, error)
	Create(ctx context.Context, p *Player) error
	Update(ctx context.Context, p Player) error
	UpdateOrders(ctx context.Context, playerID int64, orders Orders) error
	Delete(ctx context.Context, id int64) error
}
