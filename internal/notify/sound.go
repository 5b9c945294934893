package notify

// DefaultSound is used when a requested sound id is unknown.
const DefaultSound = "chime"

// SoundResolver maps symbolic sound ids to playable asset references.
type SoundResolver struct {
	assets map[string]string
}

// NewSoundResolver builds a resolver over the built-in sounds, overridden or
// extended by assets.
func NewSoundResolver(assets map[string]string) *SoundResolver {
	m := map[string]string{
		"chime": "sounds/chime.ogg",
		"bell":  "sounds/bell.ogg",
		"soft":  "sounds/soft.ogg",
	}
	for id, ref := range assets {
		if ref != "" {
			m[id] = ref
		}
	}
	return &SoundResolver{assets: m}
}

// Resolve returns the asset reference for id, falling back to DefaultSound.
func (r *SoundResolver) Resolve(id string) string {
	if ref, ok := r.assets[id]; ok {
		return ref
	}
	return r.assets[DefaultSound]
}
