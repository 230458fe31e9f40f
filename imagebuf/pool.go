package imagebuf

import "sync"

// Pool is a thread-safe pool of scratch buffers keyed by size and format.
// Mipmap generation draws its intermediate levels from the default pool.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buf
	maxSize int // max buffers per bucket, 0 = unlimited
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a pool retaining at most maxPerBucket buffers of each
// size/format combination. Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buf),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a zeroed buffer from the pool or allocates a new one.
// Returns nil if the dimensions or format are invalid.
func (p *Pool) Get(width, height int, format Format) *Buf {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	if bucket := p.buckets[key]; len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := New(width, height, format)
	if err != nil {
		return nil
	}
	return buf
}

// Put returns a buffer to the pool. Views created by SubImage are discarded
// since they share memory with their parent.
func (p *Pool) Put(buf *Buf) {
	if buf == nil || buf.stride != buf.format.RowBytes(buf.width) {
		return
	}

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of buffers currently held for the given key.
func (p *Pool) Len(width, height int, format Format) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{width: width, height: height, format: format}])
}

var defaultPool = NewPool(8)

// GetFromDefault retrieves a buffer from the package-level pool.
func GetFromDefault(width, height int, format Format) *Buf {
	return defaultPool.Get(width, height, format)
}

// PutToDefault returns a buffer to the package-level pool.
func PutToDefault(buf *Buf) {
	defaultPool.Put(buf)
}
