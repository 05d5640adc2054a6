package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/telran/accounting/internal/core/domain"
	"github.com/telran/accounting/internal/core/ports"
)

const (
	defaultCacheTTL = 5 * time.Minute
	tombstoneTTL    = 30 * time.Second
	tombstone       = "-"
)

// AccountCache is a read-through cache in front of another AccountRepository.
// The wrapped repository stays the source of truth: writes go there first and
// the cached entry is then replaced by a short-lived tombstone. Fills use
// SET NX, so a read that loaded the store before a concurrent write cannot
// put the old value back while the tombstone lives. Cache failures are
// logged and never fail the call.
//
// Key format: account:<login>
type AccountCache struct {
	next   ports.AccountRepository
	client redis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

var _ ports.AccountRepository = (*AccountCache)(nil)

func NewAccountCache(next ports.AccountRepository, client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *AccountCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AccountCache{next: next, client: client, ttl: ttl, log: log}
}

type cachedAccount struct {
	Login     string   `json:"login"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

func encodeAccount(a *domain.Account) ([]byte, error) {
	return json.Marshal(cachedAccount{
		Login:     a.Login,
		Password:  a.PasswordDigest,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Roles:     a.Roles.Slice(),
	})
}

func decodeAccount(b []byte) (*domain.Account, error) {
	var c cachedAccount
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &domain.Account{
		Login:          c.Login,
		PasswordDigest: c.Password,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Roles:          domain.NewRoleSet(c.Roles...),
	}, nil
}

func (c *AccountCache) Find(ctx context.Context, login string) (*domain.Account, error) {
	raw, err := c.client.Get(ctx, c.key(login)).Bytes()
	switch {
	case err == nil && string(raw) == tombstone:
		// Recently written; read the store until the tombstone expires.
	case err == nil:
		if acc, decErr := decodeAccount(raw); decErr == nil {
			return acc, nil
		}
		c.log.Warn().Str("login", login).Msg("dropping undecodable cache entry")
		c.evict(ctx, login)
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("login", login).Msg("account cache read failed")
	}

	acc, err := c.next.Find(ctx, login)
	if err != nil {
		return nil, err
	}
	c.store(ctx, acc)
	return acc, nil
}

func (c *AccountCache) Exists(ctx context.Context, login string) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(login)).Result()
	if err == nil && raw != tombstone {
		return true, nil
	}
	return c.next.Exists(ctx, login)
}

func (c *AccountCache) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	created, err := c.next.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	c.evict(ctx, a.Login)
	return created, nil
}

func (c *AccountCache) Save(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	saved, err := c.next.Save(ctx, a)
	// Evict even on failure: the store may have applied the write before erroring.
	c.evict(ctx, a.Login)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (c *AccountCache) Delete(ctx context.Context, a *domain.Account) error {
	err := c.next.Delete(ctx, a)
	c.evict(ctx, a.Login)
	return err
}

func (c *AccountCache) store(ctx context.Context, a *domain.Account) {
	raw, err := encodeAccount(a)
	if err != nil {
		c.log.Warn().Err(err).Str("login", a.Login).Msg("account cache encode failed")
		return
	}
	if err := c.client.SetNX(ctx, c.key(a.Login), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("login", a.Login).Msg("account cache write failed")
	}
}

// evict replaces the entry with a tombstone that blocks fills for tombstoneTTL.
func (c *AccountCache) evict(ctx context.Context, login string) {
	if err := c.client.Set(ctx, c.key(login), tombstone, tombstoneTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("login", login).Msg("account cache evict failed")
	}
}

func (c *AccountCache) key(login string) string {
	return "account:" + login
}
