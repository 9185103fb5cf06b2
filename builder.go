package accounts

import (
	"errors"

	"github.com/vigidengue/accounts/internal/logging"
	"github.com/vigidengue/accounts/jwt"
	"github.com/vigidengue/accounts/password"
	"github.com/vigidengue/accounts/twofactor"
)

// Builder assembles an [Engine]. Construction is allocation-only until Build,
// which validates the configuration and freezes the wiring.
type Builder struct {
	config     Config
	store      Store
	mailer     Mailer
	challenges twofactor.Store
	log        logging.Logger

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the builder configuration. Zero fields are filled with
// defaults at Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore wires the persistent user store. Required.
func (b *Builder) WithStore(store Store) *Builder {
	b.store = store
	return b
}

// WithMailer wires the email transport. Required.
func (b *Builder) WithMailer(mailer Mailer) *Builder {
	b.mailer = mailer
	return b
}

// WithChallengeStore wires the two-factor challenge store. When omitted,
// Build installs an in-process [twofactor.MemoryStore].
func (b *Builder) WithChallengeStore(store twofactor.Store) *Builder {
	b.challenges = store
	return b
}

// WithLogger wires the structured logger used for swallowed transport
// failures. Defaults to a no-op logger.
func (b *Builder) WithLogger(log logging.Logger) *Builder {
	b.log = log
	return b
}

// Build validates everything and returns a ready Engine. A Builder can build
// at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("user store is required")
	}
	if b.mailer == nil {
		return nil, errors.New("mailer is required")
	}

	fillConfigDefaults(&b.config)
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{Cost: b.config.Password.Cost})
	if err != nil {
		return nil, err
	}
	// Verified against when a login targets an unknown email, so both paths
	// pay the same hashing cost.
	dummyDigest, err := hasher.Hash("decoy-credential-for-unknown-accounts")
	if err != nil {
		return nil, err
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		Secret:    b.config.JWT.SigningSecret,
		AccessTTL: b.config.JWT.AccessTTL,
		Issuer:    b.config.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	challenges := b.challenges
	if challenges == nil {
		challenges = twofactor.NewMemoryStore(b.config.TwoFactor.CodeTTL, b.config.TwoFactor.CodeLength)
	}
	log := b.log
	if log == nil {
		log = logging.Nop{}
	}

	b.built = true
	return &Engine{
		config:      b.config,
		store:       b.store,
		mailer:      b.mailer,
		challenges:  challenges,
		hasher:      hasher,
		dummyDigest: dummyDigest,
		jwtManager:  jwtManager,
		log:         log,
	}, nil
}
