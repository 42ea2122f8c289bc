package handler

import (
	"time"

	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/admin"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/chat"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/infra"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Chat  *chat.Handlers
	Admin *admin.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
// opts.Storage may be nil when the usage log is disabled.
func NewRepo(opts chat.Options) *Repo {
	startTime := time.Now()
	c := chat.New(opts)
	return &Repo{
		Chat:  c,
		Admin: admin.New(opts.Storage, startTime),
		Infra: infra.New(startTime, c.Configured),
	}
}
