package usecase

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"StudentShowcase/internal/logging"
	"StudentShowcase/internal/ports"
)

// Deps wires the driven adapters and the ambient sources every repository needs.
type Deps struct {
	Stores ports.Handles
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID defaults to random UUIDs.
	NewID func() string
	// Intn picks uniformly in [0, n). Defaults to math/rand.
	Intn func(n int) int
}

type base struct {
	public ports.RecordStore
	admin  ports.RecordStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	intn   func(n int) int
}

func newBase(deps Deps, component string) base {
	b := base{
		public: deps.Stores.Public,
		admin:  deps.Stores.Admin,
		logger: deps.Logger,
		now:    deps.Now,
		newID:  deps.NewID,
		intn:   deps.Intn,
	}
	if b.admin == nil {
		b.admin = b.public
	}
	if b.logger == nil {
		b.logger = logging.Discard()
	}
	b.logger = b.logger.With("component", component)
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	if b.intn == nil {
		b.intn = rand.Intn
	}
	return b
}

func (b base) timestamp() string {
	return ports.FormatTime(b.now())
}
