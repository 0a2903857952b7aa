package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	basecache "github.com/riskibarqy/pingpong-club/internal/platform/cache"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

const playerKeyPrefix = "player:"

// Store serves player reads outside transactions from an in-process cache.
// Every committed transaction drops the cached players, so a reader never
// sees data older than the last write made through this process.
type Store struct {
	usecase.Store
	cache *basecache.Store
}

func NewStore(next usecase.Store, cache *basecache.Store) *Store {
	return &Store{Store: next, cache: cache}
}

func (s *Store) Players() player.Repository {
	return &PlayerRepository{Repository: s.Store.Players(), cache: s.cache}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	if err := s.Store.WithinTx(ctx, fn); err != nil {
		return err
	}
	s.cache.DeletePrefix(ctx, playerKeyPrefix)
	return nil
}

// PlayerRepository caches List and Get. Writes go straight through; callers
// only write inside WithinTx, which invalidates on commit.
type PlayerRepository struct {
	player.Repository
	cache *basecache.Store
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	items, err := basecache.Load(ctx, r.cache, listKey(filter), func(ctx context.Context) ([]player.Player, error) {
		items, err := r.Repository.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) Get(ctx context.Context, id int64) (player.Player, bool, error) {
	key := playerKeyPrefix + "id:" + strconv.FormatInt(id, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedPlayer, error) {
		item, exists, err := r.Repository.Get(ctx, id)
		if err != nil {
			return cachedPlayer{}, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return cached.value, cached.exists, nil
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

func listKey(filter player.ListFilter) string {
	ids := make([]string, 0, len(filter.IDs))
	for _, id := range filter.IDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return fmt.Sprintf("%slist:%t:%d:%s:%t:%s",
		playerKeyPrefix,
		filter.ValidOnly,
		filter.MinMatches,
		strings.TrimSpace(filter.NamePrefix),
		filter.OrderByRate,
		strings.Join(ids, ","),
	)
}
