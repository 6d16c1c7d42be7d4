package cache

// ScopedKeyer prefixes every key of an inner Keyer. Shared backends use it
// to keep key spaces of different deployments, or of theme sets, apart:
//
//	keyer := cache.NewScopedKeyer(nil, "diagramscene:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SceneKey(textHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(textHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
