// Package pagecache caches rendered public pages in fiber storage and
// drops them when content changes.
package pagecache

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "page:"

// Header reports HIT or MISS on cacheable requests.
const Header = "X-Page-Cache"

// MaxKeys bounds the in-process index of stores without prefix deletes.
const MaxKeys = 10000

const maxParamLen = 32

// Params maps the query parameters that change a page to their
// normalizers. Other parameters, such as utm tags, share the page of the
// bare path. A normalizer returns "" to drop the value.
var Params = map[string]func(string) string{ //nolint:gochecknoglobals
	"page":   pageNumber,
	"status": word,
}

func pageNumber(v string) string {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 1 {
		return ""
	}

	return strconv.Itoa(n)
}

func word(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) > maxParamLen {
		return ""
	}

	for _, r := range v {
		if (r < 'a' || r > 'z') && r != '-' && r != '_' {
			return ""
		}
	}

	return v
}

// prefixDeleter is implemented by stores that can drop keys by prefix.
// The store then is the index and survives restarts.
type prefixDeleter interface {
	DeletePrefix(prefix string) (int64, error)
}

type entry struct {
	ContentType string `json:"t"`
	Body        []byte `json:"b"`
}

// Cache stores page bodies keyed by request path.
type Cache struct {
	store  fiber.Storage
	ttl    time.Duration
	bypass string // requests carrying this cookie are never cached
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	keys    map[string]time.Time // key to expiry, nil when the store deletes by prefix
	maxKeys int
}

// New returns a cache over store. Requests with the bypassCookie set,
// usually the auth cookie, skip the cache.
func New(store fiber.Storage, ttl time.Duration, bypassCookie string) *Cache {
	pc := &Cache{
		store:   store,
		ttl:     ttl,
		bypass:  bypassCookie,
		prefix:  keyPrefix,
		now:     time.Now,
		maxKeys: MaxKeys,
	}

	if _, ok := store.(prefixDeleter); !ok {
		// entries of an earlier process are unreachable and left to expire
		pc.prefix = keyPrefix + uuid.NewString()[:8] + ":"
		pc.keys = map[string]time.Time{}
	}

	return pc
}

// Key returns the cache key path of a request path and its query.
func Key(path string, query url.Values) string {
	kept := url.Values{}

	for name, norm := range Params {
		if v := norm(query.Get(name)); v != "" {
			kept.Set(name, v)
		}
	}

	if len(kept) == 0 {
		return path
	}

	return path + "?" + kept.Encode()
}

func (pc *Cache) key(path string) string {
	return pc.prefix + path
}

func requestKey(c *fiber.Ctx) string {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}

	return Key(strings.Clone(c.Path()), query)
}

// remember indexes k and reports whether it may be stored.
func (pc *Cache) remember(k string) bool {
	if pc.keys == nil {
		return true
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.now()

	if _, ok := pc.keys[k]; !ok && len(pc.keys) >= pc.maxKeys {
		for old, exp := range pc.keys {
			if pc.ttl > 0 && !exp.After(now) {
				delete(pc.keys, old)
			}
		}

		if len(pc.keys) >= pc.maxKeys {
			return false
		}
	}

	pc.keys[k] = now.Add(pc.ttl)

	return true
}

// Middleware serves cached GET responses and stores fresh 200 responses.
func (pc *Cache) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if pc == nil || c.Method() != fiber.MethodGet || (pc.bypass != "" && c.Cookies(pc.bypass) != "") {
			return c.Next()
		}

		k := pc.key(requestKey(c))

		if raw, err := pc.store.Get(k); err == nil && len(raw) > 0 {
			var e entry
			if err := json.Unmarshal(raw, &e); err == nil {
				c.Set(Header, "HIT")
				c.Set(fiber.HeaderContentType, e.ContentType)

				return c.Send(e.Body)
			}
		}

		if err := c.Next(); err != nil {
			return err
		}

		c.Set(Header, "MISS")

		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		raw, err := json.Marshal(entry{
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		})
		if err != nil {
			return nil //nolint:nilerr
		}

		if !pc.remember(k) {
			log.Debug().Str("key", k).Msg("page cache index is full")

			return nil
		}

		if err := pc.store.Set(k, raw, pc.ttl); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("failed to store page")
		}

		return nil
	}
}

// Revalidate drops cached pages with their query variants. A path ending
// in "*" drops every cached page with that prefix.
func (pc *Cache) Revalidate(paths ...string) {
	if pc == nil {
		return
	}

	if pd, ok := pc.store.(prefixDeleter); ok && pc.keys == nil {
		for _, p := range paths {
			prefix, wildcard := strings.CutSuffix(p, "*")
			if !wildcard {
				pc.drop(pc.key(p))
				prefix = p + "?"
			}

			if _, err := pd.DeletePrefix(pc.key(prefix)); err != nil {
				log.Warn().Err(err).Str("prefix", prefix).Msg("failed to drop cached pages")
			}
		}

		return
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	for _, p := range paths {
		prefix, wildcard := strings.CutSuffix(p, "*")

		for k := range pc.keys {
			path := strings.TrimPrefix(k, pc.prefix)
			if path == p || (wildcard && strings.HasPrefix(path, prefix)) || strings.HasPrefix(path, p+"?") {
				pc.drop(k)
			}
		}

		if !wildcard {
			pc.drop(pc.key(p))
		}
	}
}

// RevalidateAll drops every cached page.
func (pc *Cache) RevalidateAll() {
	pc.Revalidate("/*")
}

func (pc *Cache) drop(k string) {
	if err := pc.store.Delete(k); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("failed to drop cached page")
	}

	if pc.keys != nil {
		delete(pc.keys, k)
	}
}
