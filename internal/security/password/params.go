package password

// Params is the argon2id cost policy. Hashes weaker than the current policy
// are upgraded on the next successful login.
type Params struct {
	Memory      uint32 // kibibytes
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams is ~64 MiB, t=3.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// WithCost overrides the tunable parts, ignoring zero values.
func (p Params) WithCost(memory, iterations uint32, parallelism uint8) Params {
	if memory > 0 {
		p.Memory = memory
	}
	if iterations > 0 {
		p.Iterations = iterations
	}
	if parallelism > 0 {
		p.Parallelism = parallelism
	}
	return p
}

// MinMemory is the lowest memory cost accepted from configuration (64 MiB).
const MinMemory uint32 = 64 * 1024
