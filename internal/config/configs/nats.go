package configs

import "time"

// NATS configures the JetStream event publisher. When Enabled is false
// domain events are written to the log instead.
type NATS struct {
	Enabled       bool          `env:"ENABLED" envDefault:"false"`
	URL           string        `env:"URL" envDefault:"nats://127.0.0.1:4222"`
	Stream        string        `env:"STREAM" envDefault:"SOULBOARD"`
	SubjectPrefix string        `env:"SUBJECT_PREFIX" envDefault:"soulboard.events"`
	Name          string        `env:"CLIENT_NAME" envDefault:"soulboard"`
	ConnectWait   time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
}
