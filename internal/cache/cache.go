package cache

import (
	"strings"
	"sync"
	"time"
)

type CacheItem struct {
	Value      interface{}
	Expiration int64
}

// Cache es un caché en memoria con expiración. Cada instancia tiene su propia
// rutina de limpieza, que se detiene con Close.
type Cache struct {
	items    map[string]CacheItem
	mu       sync.RWMutex
	ttl      time.Duration
	onEvict  func(key string, value interface{})
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

type Option func(*Cache)

// WithEvictHook se llama fuera del lock por cada item expirado, borrado o limpiado
func WithEvictHook(fn func(key string, value interface{})) Option {
	return func(c *Cache) { c.onEvict = fn }
}

// WithCleanupInterval cambia la frecuencia de limpieza (por defecto 5 minutos)
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) { c.interval = d }
}

// New crea un caché con el TTL por defecto indicado
func New(defaultTTL time.Duration, opts ...Option) *Cache {
	c := &Cache{
		items:    make(map[string]CacheItem),
		ttl:      defaultTTL,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.cleanupExpired(c.interval)
	return c
}

// Set guarda un valor en caché
func (c *Cache) Set(key string, value interface{}, ttl ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	duration := c.ttl
	if len(ttl) > 0 {
		duration = ttl[0]
	}

	c.items[key] = CacheItem{
		Value:      value,
		Expiration: time.Now().Add(duration).UnixNano(),
	}
}

// GetValue obtiene un valor del caché
func (c *Cache) GetValue(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}

	// Verificar si expiró
	if time.Now().UnixNano() > item.Expiration {
		return nil, false
	}

	return item.Value, true
}

// Touch obtiene un valor y renueva su expiración con el TTL por defecto
func (c *Cache) Touch(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	now := time.Now()
	if !found || now.UnixNano() > item.Expiration {
		return nil, false
	}

	item.Expiration = now.Add(c.ttl).UnixNano()
	c.items[key] = item
	return item.Value, true
}

// Delete elimina un valor del caché
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	item, found := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if found {
		c.evicted(map[string]interface{}{key: item.Value})
	}
}

// DeleteByPrefix elimina todas las claves que empiecen con un prefijo
func (c *Cache) DeleteByPrefix(prefix string) {
	removed := make(map[string]interface{})

	c.mu.Lock()
	for key, item := range c.items {
		if strings.HasPrefix(key, prefix) {
			removed[key] = item.Value
			delete(c.items, key)
		}
	}
	c.mu.Unlock()

	c.evicted(removed)
}

// Clear limpia todo el caché
func (c *Cache) Clear() {
	c.mu.Lock()
	removed := make(map[string]interface{}, len(c.items))
	for key, item := range c.items {
		removed[key] = item.Value
	}
	c.items = make(map[string]CacheItem)
	c.mu.Unlock()

	c.evicted(removed)
}

// Close detiene la limpieza periódica y desaloja todo
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
	c.Clear()
}

// Size retorna el número de items en caché
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// RemoveExpired borra los items expirados y devuelve cuántos eran
func (c *Cache) RemoveExpired() int {
	removed := make(map[string]interface{})

	c.mu.Lock()
	now := time.Now().UnixNano()
	for key, item := range c.items {
		if now > item.Expiration {
			removed[key] = item.Value
			delete(c.items, key)
		}
	}
	c.mu.Unlock()

	c.evicted(removed)
	return len(removed)
}

// cleanupExpired limpia items expirados periódicamente
func (c *Cache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.RemoveExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) evicted(items map[string]interface{}) {
	if c.onEvict == nil {
		return
	}
	for key, value := range items {
		c.onEvict(key, value)
	}
}
