package cache

import (
	"iter"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/graxinc/errutil"
	"github.com/graxinc/multilist/policy"
	"github.com/graxinc/syncmap"
)

type Options[K, V any] struct {
	Expiration    time.Duration           // Defaults to forever.
	Evict         func(K, V)              // Might be called concurrently.
	Capacity      int64                   // Defaults to 100.
	RLock         bool                    // Whether to use an RLock when possible. Defaults to false.
	PolicyCreator func() policy.Policy[K] // Defaults to policy.NewARC.
}

type value[V any] struct {
	expire uint32 // seconds since expirationEpoch
	size   uint32 // kept so removal subtracts what was added.
	v      V
}

type locker interface {
	RLock()
	RUnlock()
	TryLock() bool
	Lock()
	Unlock()
}

type mutexLocker struct {
	sync.Mutex
}

func (l *mutexLocker) RLock()   { l.Mutex.Lock() }
func (l *mutexLocker) RUnlock() { l.Mutex.Unlock() }

// The policy is not concurrent safe, all access to it goes through policyMu.
// Concurrent safe.
type Cache[K comparable, V any] struct {
	// immutable
	zero            V
	policyMu        locker
	expiration      uint32
	expirationEpoch time.Time
	evict           func(K, V)
	items           syncmap.Map[K, *value[V]]
	policy          policy.Policy[K]

	evicting atomic.Bool
	cap      atomic.Int64
	size     atomic.Int64
	length   atomic.Int64
}

func New[K comparable, V any](o Options[K, V]) *Cache[K, V] {
	if o.Capacity <= 0 {
		o.Capacity = 100
	}
	if o.Evict == nil {
		o.Evict = func(K, V) {}
	}
	if o.PolicyCreator == nil {
		o.PolicyCreator = func() policy.Policy[K] { return policy.NewARC[K]() }
	}

	var policyMu locker = &mutexLocker{}
	if o.RLock {
		policyMu = &sync.RWMutex{}
	}

	c := &Cache[K, V]{
		expiration:      expirationSecs(o.Expiration),
		expirationEpoch: time.Now(),
		evict:           o.Evict,
		policy:          o.PolicyCreator(),
		policyMu:        policyMu,
	}
	c.cap.Store(o.Capacity)
	return c
}

func expirationSecs(d time.Duration) uint32 {
	if d <= 0 {
		return 0 // forever
	}
	secs := d / time.Second
	if secs > math.MaxUint32 {
		return 0
	}
	return max(1, uint32(secs))
}

// Does not Promote.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	v, ok := c.get(k)
	if !ok {
		return c.zero, false
	}
	return v.v, true
}

// Skipped under contention.
func (c *Cache[K, V]) Promote(k K) {
	if c.policyMu.TryLock() {
		defer c.policyMu.Unlock()
		c.policy.Promote(k)
	}
}

// Promotes.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	v, ok := c.get(k)
	if !ok {
		return c.zero, false
	}
	c.Promote(k)
	return v.v, true
}

// Alias for SetS(k,v,1).
func (c *Cache[K, V]) Set(k K, v V) {
	c.SetS(k, v, 1)
}

// Replaces existing values, which are evicted.
// A min size of 1 will be used.
func (c *Cache[K, V]) SetS(k K, v V, size uint32) {
	size = max(1, size)

	nv := &value[V]{expire: c.expire(), size: size, v: v}

	// Only the caller that did not replace adds to the policy, keeping keys
	// between items and policy consistent.
	if p, replaced := c.items.Swap(k, nv); replaced {
		c.size.Add(int64(size) - int64(p.size))
		c.evict(k, p.v)
		return
	}

	c.evictToCapacity()

	c.length.Add(1)
	c.size.Add(int64(size))

	c.policyMu.Lock()
	defer c.policyMu.Unlock()
	if !c.policy.Add(k) {
		panic(errutil.New(errutil.Tags{"alreadyInPolicy": k}))
	}
}

// Evicts the value. False if missing or not yet fully set.
func (c *Cache[K, V]) Delete(k K) bool {
	c.policyMu.Lock()
	defer c.policyMu.Unlock()

	if !c.policy.Remove(k) {
		return false
	}
	v := c.mustDelete(k)
	c.length.Add(-1)
	c.size.Add(-int64(v.size))
	c.evict(k, v.v)
	return true
}

func (c *Cache[K, V]) evictToCapacity() {
	if !c.evicting.CompareAndSwap(false, true) {
		return
	}
	defer c.evicting.Store(false)

	for c.size.Load() >= c.cap.Load() {
		k, ok := c.policyEvict()
		if !ok {
			break
		}
		v := c.mustDelete(k)

		c.length.Add(-1)
		c.size.Add(-int64(v.size))
		c.evict(k, v.v)
	}
}

// Hot to cold, expired skipped. Will block.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c.policyMu.RLock()
		defer c.policyMu.RUnlock()

		for k := range c.policy.Values() {
			v := c.mustGet(k)
			if c.expired(v.expire) {
				continue
			}
			if !yield(k, v.v) {
				return
			}
		}
	}
}

func (c *Cache[K, V]) Len() int {
	return int(c.length.Load())
}

func (c *Cache[K, V]) Size() int64 {
	return c.size.Load()
}

// Evicts all and resets. Does not change capacity. Will block.
func (c *Cache[K, V]) Clear() {
	c.policyMu.Lock()
	defer c.policyMu.Unlock()

	for k := range c.policy.Values() {
		v := c.mustDelete(k)
		c.length.Add(-1)
		c.size.Add(-int64(v.size))
		c.evict(k, v.v)
	}
	c.policy.Clear()
}

func (c *Cache[K, V]) Capacity() int64 {
	return c.cap.Load()
}

// A min of 1 will be used.
func (c *Cache[K, V]) SetCapacity(new int64) (old int64) {
	return c.cap.Swap(max(1, new))
}

func (c *Cache[K, V]) SwapCapacity(old, new int64) (swapped bool) {
	return c.cap.CompareAndSwap(old, max(1, new))
}

// available (+/-) should not consider taken space in cache.
func (c *Cache[K, V]) SetAvailableCapacity(available, max int64) {
	new := min(c.size.Load()+available, max)
	if new <= 0 {
		new = 1
	}
	c.cap.Store(new)
}

func (c *Cache[K, V]) get(k K) (*value[V], bool) {
	v, ok := c.items.Load(k)
	if !ok || c.expired(v.expire) {
		return nil, false
	}
	return v, true
}

func (c *Cache[K, V]) mustGet(k K) *value[V] {
	v, ok := c.items.Load(k)
	if !ok {
		panic(errutil.New(errutil.Tags{"missingValue": k}))
	}
	return v
}

func (c *Cache[K, V]) mustDelete(k K) *value[V] {
	v, ok := c.items.LoadAndDelete(k)
	if !ok {
		panic(errutil.New(errutil.Tags{"notInItems": k}))
	}
	return v
}

func (c *Cache[K, V]) policyEvict() (K, bool) {
	c.policyMu.Lock()
	defer c.policyMu.Unlock()
	return c.policy.Evict()
}

func (c *Cache[K, V]) secsAfterExpireEpoch() uint32 {
	return uint32(time.Since(c.expirationEpoch) / time.Second)
}

func (c *Cache[K, V]) expire() uint32 {
	if c.expiration == 0 {
		return 0
	}
	return c.secsAfterExpireEpoch() + c.expiration
}

func (c *Cache[K, V]) expired(expire uint32) bool {
	if expire == 0 {
		return false
	}
	return c.secsAfterExpireEpoch() >= expire
}
