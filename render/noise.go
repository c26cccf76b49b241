package render

import "golang.org/x/exp/rand"

// Noise fills every byte of a frame with pseudo-random data.
type Noise struct {
	rand *rand.Rand
}

func NewNoise(seed uint64) *Noise {
	return &Noise{rand: rand.New(rand.NewSource(seed))}
}

func (n *Noise) Render(f Frame) {
	n.rand.Read(f.Pix[:f.Stride*f.Height])
}
