package util

// BytesAllocator is an allocation seam for requesting large chunks of
// memory. Go has no malloc/free pair worth exposing here (the garbage
// collector owns the memory), so DefaultAllocator just hands out Go-native
// byte slices and Free is a no-op. The three-level bump allocator in
// pkg/hashtable does not go through this seam: it allocates its chunks
// with make directly.
type BytesAllocator interface {
	Alloc(sz int) []byte
	Free([]byte)
}

type DefaultAllocator struct {
}

func (alloc *DefaultAllocator) Alloc(sz int) []byte {
	return make([]byte, sz)
}

func (alloc *DefaultAllocator) Free(bytes []byte) {
}

var GAlloc BytesAllocator = &DefaultAllocator{}
