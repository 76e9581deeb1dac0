package audio

// Provider is the audio sink interface backends pull samples from.
type Provider interface {
	GetSamples(count int) []int16
}

var _ Provider = (*APU)(nil)
